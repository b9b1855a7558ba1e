package client

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Query builds a URL query string from filter parameters. Unlike
// url.Values it preserves insertion order, so the same filters always
// produce the same string.
//
// A parameter is included unless its value is nil, a nil pointer or an
// empty string. Zero numbers are values like any other and are kept.
// Slices are appended as repeated keys, with the same emptiness rule
// applied per element.
type Query struct {
	pairs []queryPair
}

type queryPair struct {
	key   string
	value string
}

// NewQuery returns an empty query builder.
func NewQuery() *Query {
	return &Query{}
}

// Set adds a parameter. It returns the Query for chaining.
func (q *Query) Set(key string, value any) *Query {
	q.add(key, value)
	return q
}

func (q *Query) add(key string, value any) {
	if value == nil {
		return
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		q.add(key, v.Elem().Interface())
		return
	}

	// Types with a string form are scalars even when their underlying
	// kind is a slice or array, uuid.UUID being a [16]byte.
	if _, ok := value.(fmt.Stringer); !ok && v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			q.add(key, v.Index(i).Interface())
		}
		return
	}

	s := stringify(value)
	if s == nil {
		return
	}

	q.pairs = append(q.pairs, queryPair{key: key, value: *s})
}

// stringify renders a scalar parameter value, or nil when the value is
// an empty string and must be omitted.
func stringify(value any) *string {
	var s string

	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		s = v
	case fmt.Stringer:
		s = v.String()
		if s == "" {
			return nil
		}
	default:
		s = fmt.Sprint(v)
	}

	return &s
}

// Encode returns the query string. It is empty when no parameter was
// included, otherwise it starts with "?".
func (q *Query) Encode() string {
	if len(q.pairs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('?')

	for i, pair := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.value))
	}

	return b.String()
}
