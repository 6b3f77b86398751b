package strapi

import (
	"context"
	"sync"
)

// CreateMany creates one entity per element of values, concurrently.
func (q *QueryBuilder[T]) CreateMany(ctx context.Context, values []any) *BulkResponse[T] {
	return runBulk(ctx, q.client, len(values), func(ctx context.Context, index int) *APIResponse[T] {
		return q.Create(ctx, values[index])
	})
}

// UpdateMany applies each update concurrently.
func (q *QueryBuilder[T]) UpdateMany(ctx context.Context, items []UpdateItem) *BulkResponse[T] {
	return runBulk(ctx, q.client, len(items), func(ctx context.Context, index int) *APIResponse[T] {
		return q.Update(ctx, items[index].ID, items[index].Values)
	})
}

// DeleteMany deletes the entities with the given ids concurrently.
func (q *QueryBuilder[T]) DeleteMany(ctx context.Context, ids ...any) *BulkResponse[T] {
	return runBulk(ctx, q.client, len(ids), func(ctx context.Context, index int) *APIResponse[T] {
		return q.DeleteOne(ctx, ids[index])
	})
}

// runBulk issues count requests with at most client.concurrency in flight and
// waits for all of them.
func runBulk[T any](
	ctx context.Context,
	client *Client,
	count int,
	operation func(ctx context.Context, index int) *APIResponse[T],
) *BulkResponse[T] {
	items := make([]APIResponse[T], count)

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, client.concurrency)

	for index := 0; index < count; index++ {
		waitGroup.Add(1)

		go func(index int) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			items[index] = *operation(ctx, index)
		}(index)
	}

	waitGroup.Wait()

	result := &BulkResponse[T]{Success: true, Items: items}

	for index := range items {
		if items[index].Error == nil {
			continue
		}

		if result.Error == nil {
			result.Error = items[index].Error
		}

		client.logger.Warn("bulk request failed", map[string]interface{}{
			"index":  index,
			"status": items[index].Error.Status,
			"error":  items[index].Error.Message,
		})
	}

	return result
}
