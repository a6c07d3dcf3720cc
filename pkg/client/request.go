package client

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"time"
)

// Target selects which base URL an endpoint is resolved against
type Target int

const (
	// Backend is the remote API origin. Almost every operation uses it.
	Backend Target = iota
	// Frontend is the same-origin proxy (/api by default).
	Frontend
)

func (t Target) String() string {
	if t == Frontend {
		return "frontend"
	}
	return "backend"
}

// Request describes one API call
type Request struct {
	Method   string
	Endpoint string
	Query    Params
	Body     interface{}
	Header   http.Header
	Target   Target
}

// Params are query parameters. Nil values and nil pointers are dropped when
// encoding, so optional filters can be passed through unconditionally.
type Params map[string]interface{}

// Encode returns the query string with keys in sorted order
func (p Params) Encode() string {
	return p.Values().Encode()
}

// Values converts the params to url.Values, dropping nil entries
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, raw := range p {
		v, ok := deref(raw)
		if !ok {
			continue
		}
		switch typed := v.(type) {
		case []string:
			for _, s := range typed {
				values.Add(key, s)
			}
		case time.Time:
			values.Set(key, typed.Format(time.RFC3339))
		default:
			values.Set(key, fmt.Sprint(typed))
		}
	}
	return values
}

func deref(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

// NonZero returns nil for the zero value of T so it is omitted from Params
func NonZero[T comparable](v T) interface{} {
	var zero T
	if v == zero {
		return nil
	}
	return v
}
