package response

import "encoding/json"

// Items is the list envelope used by most collection endpoints.
type Items[T any] struct {
	Items []T `json:"items"`
}

// List returns the wrapped items, never nil.
func (i Items[T]) List() []T {
	if i.Items == nil {
		return []T{}
	}
	return i.Items
}

// ErrorBody is the error contract returned by the API on non-2xx responses.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}
