package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected filterSpec
		err      error
	}{
		{
			name:     "equality",
			input:    "title:eq:hello",
			expected: filterSpec{Field: "title", Operator: strapi.OpEqual, Value: "hello"},
		},
		{
			name:     "dollar prefix and colon in value",
			input:    "publishedAt:$gte:2024-01-01T00:00:00Z",
			expected: filterSpec{Field: "publishedAt", Operator: strapi.OpGreaterThanOrEqual, Value: "2024-01-01T00:00:00Z"},
		},
		{
			name:     "list operator",
			input:    "id:in:1,2,3",
			expected: filterSpec{Field: "id", Operator: strapi.OpIn, Value: []string{"1", "2", "3"}},
		},
		{
			name:     "between",
			input:    "views:between:10,20",
			expected: filterSpec{Field: "views", Operator: strapi.OpBetween, Value: []string{"10", "20"}},
		},
		{
			name:     "null without value",
			input:    "cover:null",
			expected: filterSpec{Field: "cover", Operator: strapi.OpNull, Value: "true"},
		},
		{
			name:     "relation path",
			input:    "author.name:containsi:ada",
			expected: filterSpec{Field: "author.name", Operator: strapi.OpContainsInsensitive, Value: "ada"},
		},
		{name: "missing operator", input: "title", err: constants.ErrInvalidFilter},
		{name: "missing value", input: "title:eq", err: constants.ErrInvalidFilter},
		{name: "missing field", input: ":eq:x", err: constants.ErrInvalidFilter},
		{name: "unknown operator", input: "title:like:x", err: strapi.ErrUnknownOperator},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spec, err := parseFilter(tt.input)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, spec)
		})
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	sort, err := parseSort("title")
	require.NoError(t, err)
	assert.Equal(t, strapi.SortSpec{Field: "title"}, sort)

	sort, err = parseSort("publishedAt:DESC")
	require.NoError(t, err)
	assert.Equal(t, strapi.Desc("publishedAt"), sort)

	sort, err = parseSort("title:asc")
	require.NoError(t, err)
	assert.Equal(t, strapi.Asc("title"), sort)

	_, err = parseSort("title:up")
	require.ErrorIs(t, err, constants.ErrInvalidSortOrder)
}

func TestParsePopulate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, populateSpec{All: true}, parsePopulate("*"))
	assert.Equal(t, populateSpec{Relation: "author"}, parsePopulate("author"))
	assert.Equal(t, populateSpec{Relation: "author", Fields: []string{"name", "email"}}, parsePopulate("author:name,email"))
	assert.Equal(t, populateSpec{Relation: "author.avatar", Nested: true}, parsePopulate("author.avatar"))
}

func TestReadPayload(t *testing.T) {
	t.Parallel()

	payload, err := readPayload(`{"title":"Hello"}`, "", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Hello"}, payload)

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"a"},{"title":"b"}]`), 0o600))

	payload, err = readPayload("", path, nil)
	require.NoError(t, err)

	items, err := payloadList(payload)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	payload, err = readPayload("", "-", strings.NewReader(`{"title":"stdin"}`))
	require.NoError(t, err)

	object, err := payloadObject(payload)
	require.NoError(t, err)
	assert.Equal(t, "stdin", object["title"])

	_, err = readPayload("not json", "", nil)
	require.ErrorIs(t, err, constants.ErrInvalidPayload)

	_, err = payloadObject([]any{})
	require.ErrorIs(t, err, constants.ErrInvalidPayload)

	_, err = payloadList([]any{"scalar"})
	require.ErrorIs(t, err, constants.ErrInvalidPayload)

	_, err = readPayload("", filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
}
