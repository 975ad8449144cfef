package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/printmanage/console/internal/core/domain"
)

// errorBody is the error envelope of the store. errors values are either a
// list of messages or a single message per field.
type errorBody struct {
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// classify maps a non-2xx answer to a domain error.
func classify(status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		return validationError(body)
	}
	return &domain.RemoteError{Status: status, Message: bestMessage(status, body, raw)}
}

func validationError(body errorBody) error {
	ve := &domain.ValidationError{Message: body.Message}
	for field, rawMsgs := range body.Errors {
		var list []string
		if err := json.Unmarshal(rawMsgs, &list); err == nil {
			for _, m := range list {
				ve.Add(field, m)
			}
			continue
		}
		var single string
		if err := json.Unmarshal(rawMsgs, &single); err == nil && single != "" {
			ve.Add(field, single)
		}
	}
	if ve.Message == "" && ve.Empty() {
		ve.Message = "The given data was invalid."
	}
	return ve
}

// bestMessage picks the most helpful text available for an unclassified
// failure.
func bestMessage(status int, body errorBody, raw []byte) string {
	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// outcome labels a call result for metrics.
func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &ve):
		return "validation"
	}
	return "error"
}
