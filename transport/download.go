package transport

import (
	"context"
	"mime"
	"net/http"
)

// Blob is a non-JSON response body such as an ICS calendar file or a PDF ticket.
type Blob struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Download fetches path as raw bytes. It shares auth, refresh and error
// classification with the JSON calls.
func (c *Client) Download(ctx context.Context, path string, opts ...RequestOption) (*Blob, error) {
	resp, err := c.exchange(ctx, http.MethodGet, path, nil, newRequestOptions(opts), "*/*")
	if err != nil {
		return nil, err
	}
	return &Blob{
		Data:        resp.body,
		ContentType: resp.header.Get("Content-Type"),
		FileName:    fileName(resp.header.Get("Content-Disposition")),
	}, nil
}

func fileName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
