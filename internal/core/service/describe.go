// Package service holds the page-level use cases of the console: loading
// and mirroring collections, saving records, gated deletes, printer
// relocation and the dashboard.
package service

import (
	"errors"
	"strings"

	"github.com/printmanage/console/internal/core/domain"
)

// Messages shown for the classified failures of the remote store.
const (
	MsgNetwork        = "Unable to reach the server. Check your connection and try again."
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgForbidden      = "You are not allowed to perform this action."
	MsgNoResult       = "No result found."
	MsgMalformed      = "The server sent an unexpected response."
	MsgUnsupported    = "This feature is not available with the current store."
)

// Describe turns an error returned by the store into the single message a
// page displays.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if b := ve.Bullets(); b != "" {
			return b
		}
		return ve.Error()
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		if msg := strings.TrimSpace(re.Message); msg != "" {
			return msg
		}
		return re.Error()
	}
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return MsgNetwork
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, domain.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, domain.ErrNotFound):
		return MsgNoResult
	case errors.Is(err, domain.ErrMalformedResponse):
		return MsgMalformed
	case errors.Is(err, domain.ErrUnsupported):
		return MsgUnsupported
	}
	return err.Error()
}
