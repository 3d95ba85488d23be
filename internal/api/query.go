package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Query holds optional query parameters. Nil values, nil pointers and empty
// strings are left out of the encoded string; pointers are dereferenced so
// an explicit false or 0 is still sent.
type Query map[string]any

// Encode renders the query sorted by key.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range q {
		if s, ok := queryValue(value); ok {
			values.Set(key, s)
		}
	}
	return values.Encode()
}

func queryValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		v = rv.Elem().Interface()
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case fmt.Stringer:
		s := t.String()
		return s, s != ""
	default:
		return fmt.Sprint(t), true
	}
}
