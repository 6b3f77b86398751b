// Package qs encodes and merges the bracketed query-string syntax used by the
// content API, e.g. filters[title][$eq]=hello or populate[author][fields][0]=name.
//
// A query is held as an ordered tree: branches keep their keys in insertion
// order and leaves hold one or more string values. A leaf is either a scalar,
// replaced on merge, or a list, which merge extends. Lists come from Add,
// repeated keys and "a[]=x"; they are written back as repeated key instances. Keys are emitted raw except for the
// characters that would break the query grammar; values are percent-encoded
// exactly once.
package qs

import (
	"net/url"
	"strconv"
	"strings"
)

// Values is an ordered bracket tree. The zero value is not usable; use New or Parse.
type Values struct {
	order    []string
	children map[string]*Values
	values   []string
	leaf     bool
	list     bool
}

// New returns an empty tree.
func New() *Values {
	return &Values{children: map[string]*Values{}}
}

func newLeaf(values ...string) *Values {
	return &Values{leaf: true, values: values}
}

func newList(values ...string) *Values {
	return &Values{leaf: true, list: true, values: values}
}

// Parse decodes a raw query string into a tree. A leading "?" is ignored.
// Parsing is lenient: malformed escapes are kept verbatim and a key without a
// value is read as an empty string.
func Parse(raw string) *Values {
	root := New()

	raw = strings.TrimPrefix(raw, "?")
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")
		if rawKey == "" {
			continue
		}

		segments := splitKey(rawKey)
		for i := range segments {
			segments[i] = unescape(segments[i])
		}

		root.add(segments, unescape(rawValue), false)
	}

	return root
}

// splitKey splits a raw key into its root name and bracket segments.
// "a[b][c]" yields ["a", "b", "c"]. An unmatched bracket ends splitting and the
// remainder is kept as a literal segment.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]

	for rest != "" {
		if rest[0] != '[' {
			segments = append(segments, rest)

			break
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			segments = append(segments, rest)

			break
		}

		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}

	return segments
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}

	return decoded
}

// Set stores value at path, replacing whatever was there.
func (v *Values) Set(path []string, value string) *Values {
	if len(path) == 0 {
		return v
	}

	parent := v.branch(path[:len(path)-1])
	parent.put(path[len(path)-1], newLeaf(value))

	return v
}

// Add appends value to the list at path. A single value added this way is
// still a list and is extended, not replaced, by Merge.
func (v *Values) Add(path []string, value string) *Values {
	if len(path) == 0 {
		return v
	}

	v.add(path, value, true)

	return v
}

// add appends value at path. A second value for the same leaf makes it a list.
func (v *Values) add(path []string, value string, list bool) {
	// "a[]=x" appends to the list stored under a.
	if len(path) > 1 && path[len(path)-1] == "" {
		path = path[:len(path)-1]
		list = true
	}

	parent := v.branch(path[:len(path)-1])
	key := path[len(path)-1]

	existing, ok := parent.children[key]
	if ok && existing.leaf {
		existing.values = append(existing.values, value)
		existing.list = true

		return
	}

	if list {
		parent.put(key, newList(value))

		return
	}

	parent.put(key, newLeaf(value))
}

// branch walks path, creating branch nodes as needed. A leaf found on the way
// is replaced by a branch.
func (v *Values) branch(path []string) *Values {
	node := v

	for _, segment := range path {
		if segment == "" {
			segment = nextIndex(node)
		}

		child, ok := node.children[segment]
		if !ok || child.leaf {
			child = New()
			node.put(segment, child)
		}

		node = child
	}

	return node
}

func nextIndex(node *Values) string {
	return strconv.Itoa(len(node.order))
}

func (v *Values) put(key string, child *Values) {
	if v.leaf {
		v.leaf = false
		v.list = false
		v.values = nil
		v.children = map[string]*Values{}
	}

	if _, ok := v.children[key]; !ok {
		v.order = append(v.order, key)
	}

	v.children[key] = child
}

// Get returns the values stored at path, or nil when path is absent or names a branch.
func (v *Values) Get(path ...string) []string {
	node := v.lookup(path)
	if node == nil || !node.leaf {
		return nil
	}

	out := make([]string, len(node.values))
	copy(out, node.values)

	return out
}

// Has reports whether path exists.
func (v *Values) Has(path ...string) bool {
	return v.lookup(path) != nil
}

// Child returns the subtree at key, or nil.
func (v *Values) Child(key string) *Values {
	if v.leaf {
		return nil
	}

	return v.children[key]
}

// Keys returns the keys of a branch in insertion order.
func (v *Values) Keys() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)

	return out
}

// IsList reports whether the node is a list leaf.
func (v *Values) IsList() bool {
	return v.leaf && v.list
}

// IsLeaf reports whether the node holds values rather than children.
func (v *Values) IsLeaf() bool {
	return v.leaf
}

// Len returns the number of top-level keys.
func (v *Values) Len() int {
	return len(v.order)
}

func (v *Values) lookup(path []string) *Values {
	node := v

	for _, segment := range path {
		if node.leaf {
			return nil
		}

		child, ok := node.children[segment]
		if !ok {
			return nil
		}

		node = child
	}

	return node
}

// Clone returns a deep copy.
func (v *Values) Clone() *Values {
	if v.leaf {
		values := make([]string, len(v.values))
		copy(values, v.values)

		return &Values{leaf: true, list: v.list, values: values}
	}

	out := New()
	for _, key := range v.order {
		out.put(key, v.children[key].Clone())
	}

	return out
}

// Merge deep-merges src into v and returns v.
//
// Keys new to v are appended in src order. When both sides are scalars the
// value from src wins. When either side is a list the values are concatenated,
// v first, and the result is a list. Branches merge recursively; a branch meeting a leaf is
// replaced by the src node in place.
func (v *Values) Merge(src *Values) *Values {
	if src == nil || src.leaf {
		return v
	}

	for _, key := range src.order {
		incoming := src.children[key]
		current, ok := v.children[key]

		switch {
		case !ok:
			v.put(key, incoming.Clone())
		case current.leaf && incoming.leaf:
			if current.list || incoming.list {
				current.values = append(current.values, incoming.values...)
				current.list = true
			} else {
				current.values = append([]string(nil), incoming.values...)
			}
		case !current.leaf && !incoming.leaf:
			current.Merge(incoming)
		default:
			v.children[key] = incoming.Clone()
		}
	}

	return v
}

// Encode serializes the tree in canonical form.
func (v *Values) Encode() string {
	parts := make([]string, 0, len(v.order))

	return strings.Join(v.encode(parts, ""), "&")
}

func (v *Values) encode(parts []string, prefix string) []string {
	for _, key := range v.order {
		child := v.children[key]

		name := escapeKey(key)
		if prefix != "" {
			name = prefix + "[" + name + "]"
		}

		if !child.leaf {
			parts = child.encode(parts, name)

			continue
		}

		for _, value := range child.values {
			parts = append(parts, name+"="+EscapeValue(value))
		}
	}

	return parts
}

// String implements fmt.Stringer.
func (v *Values) String() string {
	return v.Encode()
}
