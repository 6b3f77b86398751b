package strapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/stretchr/testify/require"
)

const testURL = "http://cms.test/api"

type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Author *Author `json:"author,omitempty"`
}

// MockTransport records requests and answers them with handler.
type MockTransport struct {
	mutex    sync.Mutex
	requests []*strapi.Request
	handler  func(req *strapi.Request) (*strapi.Response, error)
}

func (m *MockTransport) Do(ctx context.Context, req *strapi.Request) (*strapi.Response, error) {
	m.mutex.Lock()
	m.requests = append(m.requests, req)
	m.mutex.Unlock()

	return m.handler(req)
}

func (m *MockTransport) Requests() []*strapi.Request {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]*strapi.Request, len(m.requests))
	copy(out, m.requests)

	return out
}

// MockLogger for testing.
type MockLogger struct {
	mutex sync.Mutex
	logs  []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) Messages(level string) []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var out []string

	for _, entry := range l.logs {
		if entry["level"] == level {
			out = append(out, entry["msg"].(string))
		}
	}

	return out
}

func respond(status int, body string) (*strapi.Response, error) {
	resp := &strapi.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}

	if status >= http.StatusMultipleChoices {
		return resp, &strapi.HTTPError{StatusCode: status, Status: resp.Status, Body: resp.Body}
	}

	return resp, nil
}

func staticHandler(status int, body string) func(*strapi.Request) (*strapi.Response, error) {
	return func(*strapi.Request) (*strapi.Response, error) {
		return respond(status, body)
	}
}

func newTestClient(t *testing.T, handler func(*strapi.Request) (*strapi.Response, error), mutate ...func(*strapi.Config)) (*strapi.Client, *MockTransport) {
	t.Helper()

	transport := &MockTransport{handler: handler}
	config := &strapi.Config{URL: testURL, Transport: transport}

	for _, fn := range mutate {
		fn(config)
	}

	client, err := strapi.NewClient(config)
	require.NoError(t, err)

	return client, transport
}

func bodyJSON(t *testing.T, body any) string {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	return string(data)
}
