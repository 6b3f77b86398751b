package strapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
)

// QueryBuilder is bound to one collection and starts reads or performs writes.
//
// Entities of the users collection are not wrapped in data envelopes: writes
// send the values as they are and reads return the body without normalization.
type QueryBuilder[T any] struct {
	client     *Client
	collection string
	url        string
	content    bool
}

// From starts a query on collection with entities decoded into T.
func From[T any](client *Client, collection string) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		client:     client,
		collection: collection,
		url:        client.endpoint(collection),
		content:    collection != constants.UsersCollection,
	}
}

// Collection returns the collection name.
func (q *QueryBuilder[T]) Collection() string {
	return q.collection
}

// URL returns the collection URL.
func (q *QueryBuilder[T]) URL() string {
	return q.url
}

// Select starts a list read, optionally restricted to fields.
func (q *QueryBuilder[T]) Select(fields ...string) *FilterBuilder[[]T] {
	return newFilterBuilder[[]T](q.client, NewQueryContext(q.url), false, q.content).Fields(fields...)
}

// SelectOne starts a read that resolves to a single entity. When the backend
// answers with a list, the first element is returned.
func (q *QueryBuilder[T]) SelectOne(fields ...string) *FilterBuilder[T] {
	return newFilterBuilder[T](q.client, NewQueryContext(q.url), true, q.content).Fields(fields...)
}

// SelectManyByID starts a list read of the entities with the given ids.
func (q *QueryBuilder[T]) SelectManyByID(ids ...any) *FilterBuilder[[]T] {
	query := NewQueryContext(q.url)
	if len(ids) > 0 {
		query = query.With(filterFragment([]string{"filters", "id"}, OpIn, ids))
	}

	return newFilterBuilder[[]T](q.client, query, false, q.content)
}

// Create creates one entity.
func (q *QueryBuilder[T]) Create(ctx context.Context, values any) *APIResponse[T] {
	return q.write(ctx, http.MethodPost, q.url, values)
}

// Update updates the entity with id.
func (q *QueryBuilder[T]) Update(ctx context.Context, id any, values any) *APIResponse[T] {
	return q.write(ctx, http.MethodPut, q.entityURL(id), values)
}

// DeleteOne deletes the entity with id. The deleted entity is returned as the
// backend sent it, without normalization.
func (q *QueryBuilder[T]) DeleteOne(ctx context.Context, id any) *APIResponse[T] {
	return q.send(ctx, http.MethodDelete, q.entityURL(id), nil, false)
}

func (q *QueryBuilder[T]) write(ctx context.Context, method, target string, values any) *APIResponse[T] {
	return q.send(ctx, method, target, values, q.client.normalize)
}

func (q *QueryBuilder[T]) send(ctx context.Context, method, target string, values any, normalize bool) *APIResponse[T] {
	var body any
	if values != nil {
		body = q.wrap(values)
	}

	respBody, err := q.client.do(ctx, method, target, body)
	if err != nil {
		return errorResponse[T](q.client.NormalizeError(err))
	}

	return decodeResponse[T](respBody, decodeOptions{
		normalize: normalize && q.content,
		content:   q.content,
	})
}

func (q *QueryBuilder[T]) wrap(values any) any {
	if !q.content {
		return values
	}

	return map[string]any{"data": values}
}

func (q *QueryBuilder[T]) entityURL(id any) string {
	return q.url + "/" + url.PathEscape(formatValue(id))
}
