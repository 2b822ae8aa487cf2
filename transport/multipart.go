package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/jrsteele09/lankaconnect-client/apierror"
)

// File is one file part of a multipart form.
type File struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// Form is a multipart/form-data body. The form is buffered so a request can be
// replayed after a token refresh.
type Form struct {
	Fields map[string]string
	Files  []File
}

func (c *Client) PostMultipart(ctx context.Context, path string, form Form, out any, opts ...RequestOption) error {
	p, err := multipartPayload(form)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, p, out, opts)
}

func (c *Client) PutMultipart(ctx context.Context, path string, form Form, out any, opts ...RequestOption) error {
	p, err := multipartPayload(form)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, p, out, opts)
}

func multipartPayload(form Form) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, form.Fields[k]); err != nil {
			return nil, apierror.New("Unable to encode form field", 0, err)
		}
	}

	for _, f := range form.Files {
		if f.Reader == nil {
			return nil, apierror.New(fmt.Sprintf("No content for file field %q", f.Field), 0, nil)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": f.Field, "filename": f.Name}))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, apierror.New("Unable to encode file", 0, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, apierror.New("Unable to read file", 0, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, apierror.New("Unable to encode form", 0, err)
	}
	return &payload{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
