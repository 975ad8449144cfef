package remote

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/form"
)

// envelope is the {"data": ...} wrapper some endpoints use.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrap returns the payload of a {"data": ...} envelope, or raw itself
// when the body is not one. An object carrying an id is a record, never
// an envelope.
func unwrap(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return trimmed
	}
	if _, isRecord := keys["id"]; isRecord {
		return trimmed
	}
	if data, ok := keys["data"]; ok {
		return bytes.TrimSpace(data)
	}
	return trimmed
}

func empty(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// decodeList accepts a bare array or an envelope around one and checks
// every record carries its required fields.
func decodeList[T any](raw []byte) ([]T, error) {
	body := unwrap(raw)
	if len(body) == 0 || body[0] != '[' {
		return nil, malformed("expected a list")
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, malformed("%v", err)
	}
	for i := range items {
		if err := form.ValidatePresence(items[i]); err != nil {
			return nil, malformed("record %d: %v", i, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeOne accepts a bare object or an envelope around one and checks it.
func decodeOne[T any](raw []byte) (T, error) {
	var item T
	body := unwrap(raw)
	if len(body) == 0 || body[0] != '{' {
		return item, malformed("expected an object")
	}
	if err := json.Unmarshal(body, &item); err != nil {
		return item, malformed("%v", err)
	}
	if err := form.ValidatePresence(item); err != nil {
		return item, malformed("%v", err)
	}
	return item, nil
}

// decodePage reads a paginator answer: {data, total, last_page,
// current_page}.
func decodePage[T any](raw []byte) (domain.PageResult[T], error) {
	var page struct {
		Data        json.RawMessage `json:"data"`
		Total       *int            `json:"total"`
		LastPage    int             `json:"last_page"`
		CurrentPage int             `json:"current_page"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return domain.PageResult[T]{}, malformed("%v", err)
	}
	if page.Total == nil || len(page.Data) == 0 {
		return domain.PageResult[T]{}, malformed("expected a page with data and total")
	}
	items, err := decodeList[T](page.Data)
	if err != nil {
		return domain.PageResult[T]{}, err
	}
	return domain.PageResult[T]{
		Data:        items,
		Total:       *page.Total,
		LastPage:    page.LastPage,
		CurrentPage: page.CurrentPage,
	}, nil
}
