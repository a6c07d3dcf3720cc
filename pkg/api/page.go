package api

import (
	"bytes"

	json "github.com/json-iterator/go"
)

var codec = json.ConfigCompatibleWithStandardLibrary

// Page is the paginated envelope returned by list endpoints.
//
// Decoding is lenient: a bare JSON array is taken as the results, a
// missing or null results field becomes an empty slice, and Count falls
// back to the number of results.
type Page[T any] struct {
	Results  []T    `json:"results" validate:"dive"`
	Count    int    `json:"count" validate:"min=0"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`

	hasResults bool
}

// UnmarshalJSON implements the lenient decoding described on Page
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := codec.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = NewPage(items)
		return nil
	}

	var env struct {
		Results  []T    `json:"results"`
		Count    *int   `json:"count"`
		Next     string `json:"next"`
		Previous string `json:"previous"`
	}
	if !bytes.Equal(trimmed, []byte("null")) {
		if err := codec.Unmarshal(trimmed, &env); err != nil {
			return err
		}
	}

	*p = NewPage(env.Results)
	p.hasResults = env.Results != nil
	p.Next = env.Next
	p.Previous = env.Previous
	if env.Count != nil {
		p.Count = *env.Count
	}
	return nil
}

// NewPage wraps items in a single page
func NewPage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Results:    items,
		Count:      len(items),
		hasResults: true,
	}
}

// HasResults reports whether the response carried a results list at all
func (p Page[T]) HasResults() bool {
	return p.hasResults
}

// HasNext reports whether another page is available
func (p Page[T]) HasNext() bool {
	return p.Next != ""
}
