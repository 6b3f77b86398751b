package qs

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedValue    = errors.New("unsupported query value")
	ErrUnsupportedFragment = errors.New("unsupported query fragment")
)

const upperhex = "0123456789ABCDEF"

// EscapeValue percent-encodes s for use as a query value. Only the RFC 3986
// unreserved characters are left as they are, so "*" becomes "%2A".
func EscapeValue(s string) string {
	return escape(s, isUnreserved)
}

// escapeKey leaves brackets' contents readable and only escapes what would
// change how the pair is split.
func escapeKey(s string) string {
	return escape(s, func(c byte) bool {
		switch c {
		case '%', '&', '=', '#', '+', '[', ']', ' ':
			return false
		}

		return c > 0x20 && c < 0x7f
	})
}

func escape(s string, keep func(byte) bool) string {
	n := 0

	for i := 0; i < len(s); i++ {
		if !keep(s[i]) {
			n++
		}
	}

	if n == 0 {
		return s
	}

	var b strings.Builder

	b.Grow(len(s) + 2*n)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}

	return false
}

// FormatValue renders a scalar as it appears on the wire.
func FormatValue(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if typed == nil {
			return "", nil
		}

		return typed.UTC().Format(time.RFC3339Nano), nil
	}

	out, err := cast.ToStringE(value)
	if err == nil {
		return out, nil
	}

	// Named types such as "type Locale string" fall through cast.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// Pair is one entry of an Object.
type Pair struct {
	Key   string
	Value any
}

// Object is an ordered set of key/value pairs. Use it instead of a map when the
// key order of the encoded output matters.
type Object []Pair

// Marshal converts a structured value into a tree. Maps are walked in sorted
// key order, Objects in their own order, and slices produce indexed segments
// ([0], [1], ...). Nil values and empty collections are skipped.
func Marshal(value any) (*Values, error) {
	root := New()

	switch typed := value.(type) {
	case *Values:
		if typed == nil {
			return root, nil
		}

		return typed.Clone(), nil
	case string:
		return Parse(typed), nil
	}

	err := marshalInto(root, nil, value)
	if err != nil {
		return nil, err
	}

	return root, nil
}

func marshalInto(root *Values, path []string, value any) error {
	switch typed := value.(type) {
	case nil:
		return nil
	case *Values:
		if typed == nil {
			return nil
		}

		return marshalTree(root, path, typed)
	case Object:
		for _, pair := range typed {
			err := marshalInto(root, appendPath(path, pair.Key), pair.Value)
			if err != nil {
				return err
			}
		}

		return nil
	case time.Time, *time.Time:
		return marshalScalar(root, path, value)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key %s", ErrUnsupportedValue, rv.Type().Key())
		}

		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}

		sort.Strings(keys)

		for _, key := range keys {
			err := marshalInto(root, appendPath(path, key), rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return err
			}
		}

		return nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return marshalScalar(root, path, string(rv.Bytes()))
		}

		for i := 0; i < rv.Len(); i++ {
			err := marshalInto(root, appendPath(path, strconv.Itoa(i)), rv.Index(i).Interface())
			if err != nil {
				return err
			}
		}

		return nil
	default:
		return marshalScalar(root, path, rv.Interface())
	}
}

func marshalTree(root *Values, path []string, tree *Values) error {
	if len(path) == 0 {
		root.Merge(tree)

		return nil
	}

	parent := root.branch(path[:len(path)-1])
	parent.put(path[len(path)-1], tree.Clone())

	return nil
}

func marshalScalar(root *Values, path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: top-level scalar %T", ErrUnsupportedFragment, value)
	}

	out, err := FormatValue(value)
	if err != nil {
		return err
	}

	root.Set(path, out)

	return nil
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)

	return append(out, key)
}

// Merge parses existing, merges fragment into it and returns the canonical
// encoding. fragment may be a raw query string, a *Values tree, an Object or
// any value accepted by Marshal.
func Merge(existing string, fragment any) (string, error) {
	incoming, err := Marshal(fragment)
	if err != nil {
		return "", err
	}

	return Parse(existing).Merge(incoming).Encode(), nil
}

// Attach appends query to baseURL. The separator is "?" when baseURL has no
// query component yet and "&" otherwise; a trailing "?" or "&" is reused.
func Attach(baseURL, query string) string {
	query = strings.TrimPrefix(query, "?")

	switch {
	case query == "":
		return baseURL
	case strings.HasSuffix(baseURL, "?"), strings.HasSuffix(baseURL, "&"):
		return baseURL + query
	case strings.Contains(baseURL, "?"):
		return baseURL + "&" + query
	default:
		return baseURL + "?" + query
	}
}
