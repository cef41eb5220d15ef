package facade

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// payloadFields are checked in order for a backend-provided message.
var payloadFields = []string{"error", "detail", "message"}

// MessageFor derives the user-facing message for err. The first match wins:
// custom, a message field of the error payload, non_field_errors, the first
// field error, the transport error, a status default, then a generic text.
func MessageFor(err error, custom string) string {
	if custom != "" {
		return custom
	}
	if err == nil {
		return quote.MsgGenericError
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return quote.MsgGenericError
	}

	if msg := payloadMessage(apiErr.Raw); msg != "" {
		return msg
	}
	if apiErr.IsNetwork() {
		return quote.MsgNetworkError
	}
	switch s := apiErr.Status; {
	case s == 401:
		return quote.MsgUnauthorized
	case s == 404:
		return quote.MsgNotFound
	case s >= 500:
		return quote.MsgServerError
	}
	return quote.MsgGenericError
}

func payloadMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		return ""
	}
	if raw[0] != '{' {
		return ""
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}
	for _, key := range payloadFields {
		if v, ok := obj[key]; ok {
			if msg := textOf(v, ", "); msg != "" {
				return msg
			}
		}
	}
	if v, ok := obj["non_field_errors"]; ok {
		if msg := textOf(v, ", "); msg != "" {
			return msg
		}
	}
	if key := firstKey(raw); key != "" {
		return textOf(obj[key], "")
	}
	return ""
}

// textOf renders a string, or the elements of an array joined by sep. An
// empty sep keeps only the first element.
func textOf(v json.RawMessage, sep string) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var list []json.RawMessage
	if json.Unmarshal(v, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if t := textOf(item, sep); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		if sep == "" {
			return parts[0]
		}
		return strings.Join(parts, sep)
	}
	var scalar any
	if json.Unmarshal(v, &scalar) == nil && scalar != nil {
		if _, isObj := scalar.(map[string]any); !isObj {
			return fmt.Sprint(scalar)
		}
	}
	return ""
}

// firstKey returns the first key of a JSON object in document order.
func firstKey(raw []byte) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}
