package qs_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/strapi-go/pkg/qs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("nested brackets", func(t *testing.T) {
		t.Parallel()

		values := qs.Parse("filters[author][name][$eq]=John&sort[0]=title")

		assert.Equal(t, []string{"John"}, values.Get("filters", "author", "name", "$eq"))
		assert.Equal(t, []string{"title"}, values.Get("sort", "0"))
		assert.Equal(t, []string{"filters", "sort"}, values.Keys())
	})

	t.Run("repeated keys become a list", func(t *testing.T) {
		t.Parallel()

		values := qs.Parse("filters[id][$in]=1&filters[id][$in]=2")

		assert.Equal(t, []string{"1", "2"}, values.Get("filters", "id", "$in"))
		assert.True(t, values.Child("filters").Child("id").Child("$in").IsList())
		assert.False(t, qs.Parse("a=1").Child("a").IsList())
	})

	t.Run("empty brackets append", func(t *testing.T) {
		t.Parallel()

		values := qs.Parse("tags[]=a&tags[]=b")

		assert.Equal(t, []string{"a", "b"}, values.Get("tags"))
	})

	t.Run("decodes escapes and plus", func(t *testing.T) {
		t.Parallel()

		values := qs.Parse("q=hello+world&populate=%2A&k%5B=x")

		assert.Equal(t, []string{"hello world"}, values.Get("q"))
		assert.Equal(t, []string{"*"}, values.Get("populate"))
		assert.Equal(t, []string{"x"}, values.Get("k["))
	})

	t.Run("lenient on malformed input", func(t *testing.T) {
		t.Parallel()

		values := qs.Parse("?a=%zz&&b&c[d=1")

		assert.Equal(t, []string{"%zz"}, values.Get("a"))
		assert.Equal(t, []string{""}, values.Get("b"))
		assert.True(t, values.Has("c"))
	})
}

func TestValues_Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "filter",
			input: "filters[title][$eq]=hello",
			want:  "filters[title][$eq]=hello",
		},
		{
			name:  "values encoded once",
			input: "filters[title][$contains]=a%20b&populate=*",
			want:  "filters[title][$contains]=a%20b&populate=%2A",
		},
		{
			name:  "repeated keys kept in order",
			input: "filters[x][$in]=2&filters[x][$in]=1",
			want:  "filters[x][$in]=2&filters[x][$in]=1",
		},
		{
			name:  "insertion order not alphabetical",
			input: "sort[0]=b&locale=en&filters[a][$eq]=1",
			want:  "sort[0]=b&locale=en&filters[a][$eq]=1",
		},
		{
			name:  "reserved characters in values",
			input: "filters[date][$gte]=2024-01-01T00%3A00%3A00Z",
			want:  "filters[date][$gte]=2024-01-01T00%3A00%3A00Z",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			encoded := qs.Parse(testCase.input).Encode()
			assert.Equal(t, testCase.want, encoded)
			assert.Equal(t, encoded, qs.Parse(encoded).Encode(), "re-encoding must be a no-op")
		})
	}
}

func TestValues_Merge(t *testing.T) {
	t.Parallel()

	t.Run("new scalar wins", func(t *testing.T) {
		t.Parallel()

		merged := qs.Parse("pagination[page]=1&pagination[pageSize]=10").
			Merge(qs.Parse("pagination[page]=2"))

		assert.Equal(t, "pagination[page]=2&pagination[pageSize]=10", merged.Encode())
	})

	t.Run("lists concatenate", func(t *testing.T) {
		t.Parallel()

		merged := qs.Parse("filters[x][$in]=1&filters[x][$in]=2").
			Merge(qs.Parse("filters[x][$in]=3&filters[x][$in]=4"))

		assert.Equal(t, []string{"1", "2", "3", "4"}, merged.Get("filters", "x", "$in"))
	})

	t.Run("single added value stays a list", func(t *testing.T) {
		t.Parallel()

		dst := qs.New().Add([]string{"filters", "id", "$in"}, "1")
		merged := dst.Merge(qs.New().Add([]string{"filters", "id", "$in"}, "2"))

		assert.Equal(t, []string{"1", "2"}, merged.Get("filters", "id", "$in"))
		assert.True(t, merged.Child("filters").Child("id").Child("$in").IsList())
	})

	t.Run("list extended by scalar", func(t *testing.T) {
		t.Parallel()

		merged := qs.New().Add([]string{"tags"}, "a").Merge(qs.Parse("tags=b"))

		assert.Equal(t, "tags=a&tags=b", merged.Encode())
	})

	t.Run("clone keeps list marks", func(t *testing.T) {
		t.Parallel()

		merged := qs.New().Add([]string{"tags"}, "a").Clone().Merge(qs.Parse("tags=b"))

		assert.Equal(t, []string{"a", "b"}, merged.Get("tags"))
	})

	t.Run("new keys appended after existing", func(t *testing.T) {
		t.Parallel()

		merged := qs.Parse("filters[a][$eq]=1").Merge(qs.Parse("locale=fr&filters[b][$eq]=2"))

		assert.Equal(t, "filters[a][$eq]=1&filters[b][$eq]=2&locale=fr", merged.Encode())
	})

	t.Run("leaf replaced by branch", func(t *testing.T) {
		t.Parallel()

		merged := qs.Parse("populate=*").Merge(qs.Parse("populate[author][fields][0]=name"))

		assert.Equal(t, "populate[author][fields][0]=name", merged.Encode())
	})

	t.Run("source is not modified", func(t *testing.T) {
		t.Parallel()

		src := qs.Parse("a[b]=1")
		dst := qs.New().Merge(src)
		dst.Set([]string{"a", "b"}, "2")

		assert.Equal(t, []string{"1"}, src.Get("a", "b"))
	})

	t.Run("overwrite law", func(t *testing.T) {
		t.Parallel()

		base := "filters[a][$eq]=0"
		first := "filters[a][$eq]=1&filters[b][$eq]=1"
		second := "filters[b][$eq]=2&filters[c][$eq]=2"

		step, err := qs.Merge(base, first)
		require.NoError(t, err)
		out, err := qs.Merge(step, second)
		require.NoError(t, err)

		parsed := qs.Parse(out)
		assert.Equal(t, []string{"1"}, parsed.Get("filters", "a", "$eq"))
		assert.Equal(t, []string{"2"}, parsed.Get("filters", "b", "$eq"))
		assert.Equal(t, []string{"2"}, parsed.Get("filters", "c", "$eq"))
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	t.Run("slices are indexed", func(t *testing.T) {
		t.Parallel()

		values, err := qs.Marshal(map[string]any{"sort": []string{"title:asc", "id"}})
		require.NoError(t, err)
		assert.Equal(t, "sort[0]=title%3Aasc&sort[1]=id", values.Encode())
	})

	t.Run("object keeps order", func(t *testing.T) {
		t.Parallel()

		values, err := qs.Marshal(qs.Object{
			{Key: "populate", Value: qs.Object{
				{Key: "author", Value: qs.Object{
					{Key: "fields", Value: []string{"name", "email"}},
					{Key: "populate", Value: "*"},
				}},
			}},
			{Key: "locale", Value: "en"},
		})
		require.NoError(t, err)
		assert.Equal(t,
			"populate[author][fields][0]=name&populate[author][fields][1]=email&populate[author][populate]=%2A&locale=en",
			values.Encode())
	})

	t.Run("maps sorted and nils skipped", func(t *testing.T) {
		t.Parallel()

		values, err := qs.Marshal(map[string]any{"b": 2, "a": true, "c": nil, "d": 1.5})
		require.NoError(t, err)
		assert.Equal(t, "a=true&b=2&d=1.5", values.Encode())
	})

	t.Run("raw string fragment", func(t *testing.T) {
		t.Parallel()

		values, err := qs.Marshal("a[b]=c")
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, values.Get("a", "b"))
	})

	t.Run("unsupported values", func(t *testing.T) {
		t.Parallel()

		_, err := qs.Marshal(map[string]any{"a": struct{ X int }{1}})
		require.ErrorIs(t, err, qs.ErrUnsupportedValue)

		_, err = qs.Marshal(42)
		require.ErrorIs(t, err, qs.ErrUnsupportedFragment)
	})
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	type locale string

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"float", 2.5, "2.5"},
		{"bool", false, "false"},
		{"named string", locale("fr"), "fr"},
		{"time", stamp, "2024-05-01T12:00:00Z"},
		{"nil", nil, ""},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := qs.FormatValue(testCase.value)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestEscapeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a-b_c.d~e", qs.EscapeValue("a-b_c.d~e"))
	assert.Equal(t, "%2A", qs.EscapeValue("*"))
	assert.Equal(t, "a%20b%26c%3Dd", qs.EscapeValue("a b&c=d"))
	assert.Equal(t, "%C3%A9t%C3%A9", qs.EscapeValue("été"))
}

func TestAttach(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base  string
		query string
		want  string
	}{
		{"https://x/y", "a=1", "https://x/y?a=1"},
		{"https://x/y?a=1", "b=2", "https://x/y?a=1&b=2"},
		{"https://x/y?", "a=1", "https://x/y?a=1"},
		{"https://x/y?a=1&", "b=2", "https://x/y?a=1&b=2"},
		{"https://x/y", "", "https://x/y"},
		{"https://x/y", "?a=1", "https://x/y?a=1"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.base+"+"+testCase.query, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, qs.Attach(testCase.base, testCase.query))
		})
	}
}

func TestMerge_RawFragments(t *testing.T) {
	t.Parallel()

	out, err := qs.Merge("", "filters[title][$eq]=hello")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "filters[title][$eq]=hello"))

	out, err = qs.Merge(out, qs.New().Add([]string{"filters", "x", "$in"}, "1").Add([]string{"filters", "x", "$in"}, "2"))
	require.NoError(t, err)
	assert.Equal(t, "filters[title][$eq]=hello&filters[x][$in]=1&filters[x][$in]=2", out)
}
