package strapi

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/qs"
)

// FilterBuilder accumulates filters, sorting, pagination and population for
// one read and executes it with Get. Every method merges its fragment into the
// builder's QueryContext and returns the same builder.
//
// A builder belongs to a single chain and is not safe for concurrent use.
type FilterBuilder[T any] struct {
	client  *Client
	query   QueryContext
	single  bool
	content bool
}

func newFilterBuilder[T any](client *Client, query QueryContext, single, content bool) *FilterBuilder[T] {
	return &FilterBuilder[T]{
		client:  client,
		query:   query,
		single:  single,
		content: content,
	}
}

// Query returns the accumulated query context.
func (b *FilterBuilder[T]) Query() QueryContext {
	return b.query
}

// URL returns the URL Get would request.
func (b *FilterBuilder[T]) URL() string {
	return b.query.URL()
}

// Single reports whether Get resolves to one entity.
func (b *FilterBuilder[T]) Single() bool {
	return b.single
}

func (b *FilterBuilder[T]) merge(fragment *qs.Values) *FilterBuilder[T] {
	b.query = b.query.With(fragment)

	return b
}

// Filter adds filters[field][$op]=value. A slice value adds one entry per element.
func (b *FilterBuilder[T]) Filter(field string, op Operator, value any) *FilterBuilder[T] {
	return b.merge(filterFragment([]string{"filters", field}, op, value))
}

// EqualTo filters on field = value.
func (b *FilterBuilder[T]) EqualTo(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpEqual, value)
}

// NotEqualTo filters on field != value.
func (b *FilterBuilder[T]) NotEqualTo(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpNotEqual, value)
}

// LessThan filters on field < value.
func (b *FilterBuilder[T]) LessThan(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpLessThan, value)
}

// LessThanOrEqualTo filters on field <= value.
func (b *FilterBuilder[T]) LessThanOrEqualTo(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpLessThanOrEqual, value)
}

// GreaterThan filters on field > value.
func (b *FilterBuilder[T]) GreaterThan(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpGreaterThan, value)
}

// GreaterThanOrEqualTo filters on field >= value.
func (b *FilterBuilder[T]) GreaterThanOrEqualTo(field string, value any) *FilterBuilder[T] {
	return b.Filter(field, OpGreaterThanOrEqual, value)
}

// ContainsCaseSensitive filters on field containing value.
func (b *FilterBuilder[T]) ContainsCaseSensitive(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpContains, value)
}

// NotContainsCaseSensitive filters on field not containing value.
func (b *FilterBuilder[T]) NotContainsCaseSensitive(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpNotContains, value)
}

// Contains filters on field containing value, ignoring case.
func (b *FilterBuilder[T]) Contains(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpContainsInsensitive, value)
}

// NotContains filters on field not containing value, ignoring case.
func (b *FilterBuilder[T]) NotContains(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpNotContainsInsensitive, value)
}

// IsNull filters on field being null.
func (b *FilterBuilder[T]) IsNull(field string) *FilterBuilder[T] {
	return b.Filter(field, OpNull, constants.BooleanTrue)
}

// IsNotNull filters on field being set.
func (b *FilterBuilder[T]) IsNotNull(field string) *FilterBuilder[T] {
	return b.Filter(field, OpNotNull, constants.BooleanTrue)
}

// Between filters on from <= field <= to.
func (b *FilterBuilder[T]) Between(field string, from, to any) *FilterBuilder[T] {
	return b.Filter(field, OpBetween, []any{from, to})
}

// StartsWith filters on field starting with value.
func (b *FilterBuilder[T]) StartsWith(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpStartsWith, value)
}

// EndsWith filters on field ending with value.
func (b *FilterBuilder[T]) EndsWith(field, value string) *FilterBuilder[T] {
	return b.Filter(field, OpEndsWith, value)
}

// In filters on field matching any of values, which may be a slice or a scalar.
func (b *FilterBuilder[T]) In(field string, values any) *FilterBuilder[T] {
	return b.Filter(field, OpIn, values)
}

// NotIn filters on field matching none of values.
func (b *FilterBuilder[T]) NotIn(field string, values any) *FilterBuilder[T] {
	return b.Filter(field, OpNotIn, values)
}

// FilterDeep filters on a relation path such as "author.name".
func (b *FilterBuilder[T]) FilterDeep(path string, op Operator, value any) *FilterBuilder[T] {
	if !op.Relational() {
		b.client.logger.Warn("operator is not supported on relation filters", map[string]interface{}{
			"path":     path,
			"operator": string(op),
		})
	}

	segments := append([]string{"filters"}, splitPath(path)...)

	return b.merge(filterFragment(segments, op, value))
}

// OrFilter combines conditions with OR. Conditions keep their input order and
// follow any added by earlier OrFilter calls.
func (b *FilterBuilder[T]) OrFilter(conditions ...OrCondition) *FilterBuilder[T] {
	offset := 0
	if filters := b.query.Values().Child("filters"); filters != nil {
		if group := filters.Child("$or"); group != nil {
			offset = group.Len()
		}
	}

	fragment := qs.New()

	for i, condition := range conditions {
		path := []string{"filters", "$or", strconv.Itoa(offset + i)}
		path = append(path, splitPath(condition.Path)...)
		path = append(path, condition.Operator.Key())

		setValue(fragment, path, condition.Operator, condition.Value)
	}

	return b.merge(fragment)
}

// Fields restricts the returned fields, after any selected earlier.
func (b *FilterBuilder[T]) Fields(fields ...string) *FilterBuilder[T] {
	offset := 0
	if existing := b.query.Values().Child("fields"); existing != nil && !existing.IsLeaf() {
		offset = existing.Len()
	}

	fragment := qs.New()
	for i, field := range fields {
		fragment.Set([]string{"fields", strconv.Itoa(offset + i)}, field)
	}

	return b.merge(fragment)
}

// SortBy sorts by the given fields in order, after any earlier sorts.
func (b *FilterBuilder[T]) SortBy(sorts ...SortSpec) *FilterBuilder[T] {
	offset := 0
	if existing := b.query.Values().Child("sort"); existing != nil && !existing.IsLeaf() {
		offset = existing.Len()
	}

	fragment := qs.New()

	for i, spec := range sorts {
		value := spec.Field
		if spec.Order != "" {
			value += ":" + string(spec.Order)
		}

		fragment.Set([]string{"sort", strconv.Itoa(offset + i)}, value)
	}

	return b.merge(fragment)
}

// Paginate selects a page. It can be combined with PaginateByOffset; the
// backend decides which wins.
func (b *FilterBuilder[T]) Paginate(page, pageSize int) *FilterBuilder[T] {
	return b.merge(qs.New().
		Set([]string{"pagination", "page"}, strconv.Itoa(page)).
		Set([]string{"pagination", "pageSize"}, strconv.Itoa(pageSize)))
}

// PaginateByOffset selects limit entries starting at start.
func (b *FilterBuilder[T]) PaginateByOffset(start, limit int) *FilterBuilder[T] {
	return b.merge(qs.New().
		Set([]string{"pagination", "start"}, strconv.Itoa(start)).
		Set([]string{"pagination", "limit"}, strconv.Itoa(limit)))
}

// WithDraft includes draft entries.
func (b *FilterBuilder[T]) WithDraft() *FilterBuilder[T] {
	return b.merge(qs.New().Set([]string{"publicationState"}, constants.PublicationStatePreview))
}

// OnlyDraft returns draft entries only.
func (b *FilterBuilder[T]) OnlyDraft() *FilterBuilder[T] {
	return b.merge(qs.New().
		Set([]string{"publicationState"}, constants.PublicationStatePreview).
		Set([]string{"filters", "publishedAt", OpNull.Key()}, constants.BooleanTrue))
}

// SetLocale selects the locale of localized content.
func (b *FilterBuilder[T]) SetLocale(code string) *FilterBuilder[T] {
	return b.merge(qs.New().Set([]string{"locale"}, code))
}

// Populate includes every first-level relation.
func (b *FilterBuilder[T]) Populate() *FilterBuilder[T] {
	return b.merge(qs.New().Set([]string{"populate"}, constants.PopulateAll))
}

// PopulateWith includes one relation, optionally restricted to fields. With
// deep set, every relation of the related entity is included as well.
func (b *FilterBuilder[T]) PopulateWith(relation string, fields []string, deep bool) *FilterBuilder[T] {
	base := []string{"populate", relation}
	fragment := qs.New()

	for i, field := range fields {
		fragment.Set(join(base, "fields", strconv.Itoa(i)), field)
	}

	if deep {
		fragment.Set(join(base, "populate"), constants.PopulateAll)
	}

	if len(fields) == 0 && !deep {
		fragment.Set(base, constants.BooleanTrue)
	}

	return b.merge(fragment)
}

// PopulateDeep includes the relations described by specs.
func (b *FilterBuilder[T]) PopulateDeep(specs ...PopulateSpec) *FilterBuilder[T] {
	fragment := qs.New()

	for _, spec := range specs {
		base := populatePath(spec.Path)

		for i, field := range spec.Fields {
			fragment.Set(join(base, "fields", strconv.Itoa(i)), field)
		}

		if spec.AllChildren {
			fragment.Set(join(base, "populate"), constants.PopulateAll)

			continue
		}

		if len(spec.Fields) == 0 && len(spec.Children) == 0 {
			fragment.Set(base, constants.BooleanTrue)

			continue
		}

		for _, child := range spec.Children {
			if len(child.Fields) == 0 {
				fragment.Set(join(base, "populate", child.Key), constants.PopulateAll)

				continue
			}

			for i, field := range child.Fields {
				fragment.Set(join(base, "populate", child.Key, "fields", strconv.Itoa(i)), field)
			}
		}
	}

	return b.merge(fragment)
}

// Get runs the query.
func (b *FilterBuilder[T]) Get(ctx context.Context) *APIResponse[T] {
	url := b.query.URL()

	if b.client.debug {
		b.client.logger.Debug("strapi query", map[string]interface{}{"url": url})
	}

	body, err := b.client.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorResponse[T](b.client.NormalizeError(err))
	}

	return decodeResponse[T](body, decodeOptions{
		normalize: b.client.normalize,
		single:    b.single,
		content:   b.content,
	})
}

// populatePath turns "a.b" into populate[a][populate][b].
func populatePath(path string) []string {
	segments := splitPath(path)
	out := make([]string, 0, 2*len(segments))

	for _, segment := range segments {
		out = append(out, "populate", segment)
	}

	return out
}

func filterFragment(path []string, op Operator, value any) *qs.Values {
	fragment := qs.New()
	setValue(fragment, join(path, op.Key()), op, value)

	return fragment
}

// setValue stores value at path. Slices and the list operators produce a list
// leaf, which later fragments for the same key extend; anything else is a
// scalar that a later fragment replaces.
func setValue(fragment *qs.Values, path []string, op Operator, value any) {
	items, isSlice := expand(value)
	if !isSlice && !op.List() {
		fragment.Set(path, formatValue(value))

		return
	}

	for _, item := range items {
		fragment.Add(path, formatValue(item))
	}
}

// expand returns the elements of a slice or array value, or the value itself.
func expand(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return []any{value}, false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{value}, false
		}

		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}

		return out, true
	default:
		return []any{value}, false
	}
}

func formatValue(value any) string {
	out, err := qs.FormatValue(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return out
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func join(base []string, segments ...string) []string {
	out := make([]string, 0, len(base)+len(segments))
	out = append(out, base...)

	return append(out, segments...)
}
