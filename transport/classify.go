package transport

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/lankaconnect-client/apierror"
)

// Keys checked, in order, for a human readable message in an error body.
var messageKeys = []string{"message", "error", "title", "detail"}

// Keys that may carry per-field validation errors.
var fieldErrorKeys = []string{"errors", "validationErrors"}

func classifyResponse(resp *response) *apierror.Error {
	message, fields := parseErrorBody(resp.body)
	return apierror.FromStatus(resp.status, message, fields, resp.body)
}

// parseErrorBody understands the shapes the API produces: {message|error|title|detail},
// ASP.NET problem details with an errors map, FluentValidation style
// [{propertyName, errorMessage}] lists and a bare JSON string.
func parseErrorBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}

	var str string
	if err := json.Unmarshal(body, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", nil
	}

	var message string
	for _, key := range messageKeys {
		if raw, ok := obj[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				message = s
				break
			}
		}
	}

	for _, key := range fieldErrorKeys {
		if raw, ok := obj[key]; ok {
			if fields := parseFieldErrors(raw); len(fields) > 0 {
				return message, fields
			}
		}
	}
	return message, nil
}

func parseFieldErrors(raw json.RawMessage) map[string][]string {
	var multi map[string][]string
	if json.Unmarshal(raw, &multi) == nil && len(multi) > 0 {
		return multi
	}

	var single map[string]string
	if json.Unmarshal(raw, &single) == nil && len(single) > 0 {
		out := make(map[string][]string, len(single))
		for k, v := range single {
			out[k] = []string{v}
		}
		return out
	}

	var list []struct {
		PropertyName string `json:"propertyName"`
		Field        string `json:"field"`
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
	}
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		out := make(map[string][]string)
		for _, item := range list {
			field := item.PropertyName
			if field == "" {
				field = item.Field
			}
			msg := item.ErrorMessage
			if msg == "" {
				msg = item.Message
			}
			if msg != "" {
				out[field] = append(out[field], msg)
			}
		}
		return out
	}

	var messages []string
	if json.Unmarshal(raw, &messages) == nil && len(messages) > 0 {
		return map[string][]string{"": messages}
	}
	return nil
}
