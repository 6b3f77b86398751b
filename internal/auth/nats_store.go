package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when no server URL is configured.
var ErrNATSURLRequired = errors.New("NATS URL is required")

// NATSKVConfig configures the JetStream key-value session store.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. nats://127.0.0.1:4222
	URL string

	// Bucket name, created on first use when missing
	Bucket string

	// TTL applied to the bucket when it is created
	TTL time.Duration

	// Timeout for establishing the connection
	Timeout time.Duration
}

type kvBucket interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
}

// NATSKVStore shares sessions between processes through a JetStream KV bucket.
type NATSKVStore struct {
	conn   *nats.Conn
	bucket kvBucket
}

// NewNATSKVStore connects to the server and opens, or creates, the bucket.
func NewNATSKVStore(config *NATSKVConfig) (*NATSKVStore, error) {
	if config == nil || config.URL == "" {
		return nil, ErrNATSURLRequired
	}

	bucketName := config.Bucket
	if bucketName == "" {
		bucketName = constants.DefaultNATSBucket
	}

	ttl := config.TTL
	if ttl == 0 {
		ttl = constants.DefaultSessionTTL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = constants.ShortHTTPTimeout
	}

	conn, err := nats.Connect(config.URL, nats.Name("strapi-go"), nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	jetStream, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	bucket, err := jetStream.KeyValue(bucketName)
	if errors.Is(err, nats.ErrBucketNotFound) {
		bucket, err = jetStream.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucketName,
			Description: "strapi client sessions",
			TTL:         ttl,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening KV bucket %q: %w", bucketName, err)
	}

	return &NATSKVStore{conn: conn, bucket: bucket}, nil
}

// Get returns the value stored under key.
func (s *NATSKVStore) Get(ctx context.Context, key string) (string, error) {
	err := ctx.Err()
	if err != nil {
		return "", err
	}

	entry, err := s.bucket.Get(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return "", ErrSessionNotFound
	}

	if err != nil {
		return "", fmt.Errorf("reading %q from KV: %w", key, err)
	}

	return string(entry.Value()), nil
}

// Set stores value under key.
func (s *NATSKVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	err := ctx.Err()
	if err != nil {
		return err
	}

	_, err = s.bucket.Put(key, []byte(value))
	if err != nil {
		return fmt.Errorf("writing %q to KV: %w", key, err)
	}

	return nil
}

// Remove deletes key.
func (s *NATSKVStore) Remove(ctx context.Context, key string) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	err = s.bucket.Delete(key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting %q from KV: %w", key, err)
	}

	return nil
}

// Close drains the connection.
func (s *NATSKVStore) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
