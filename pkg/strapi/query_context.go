package strapi

import "github.com/fivetwenty-io/strapi-go/pkg/qs"

// QueryContext is the accumulated query of one chain. It is a value: With
// returns a new context and leaves the receiver untouched.
//
// The parsed tree is kept alongside the encoding so list-valued directives
// added with a single element are still extended by later fragments.
type QueryContext struct {
	baseURL string
	values  *qs.Values
}

// NewQueryContext starts an empty query for baseURL.
func NewQueryContext(baseURL string) QueryContext {
	return QueryContext{baseURL: baseURL}
}

// BaseURL returns the resource URL without the query.
func (c QueryContext) BaseURL() string {
	return c.baseURL
}

// Query returns the canonical encoded query.
func (c QueryContext) Query() string {
	if c.values == nil {
		return ""
	}

	return c.values.Encode()
}

// URL returns the resource URL with the query attached.
func (c QueryContext) URL() string {
	return qs.Attach(c.baseURL, c.Query())
}

// Values returns a copy of the parsed query.
func (c QueryContext) Values() *qs.Values {
	if c.values == nil {
		return qs.New()
	}

	return c.values.Clone()
}

// With merges fragment into the query.
func (c QueryContext) With(fragment *qs.Values) QueryContext {
	return QueryContext{baseURL: c.baseURL, values: c.Values().Merge(fragment)}
}

// WithRaw merges a raw query-string fragment into the query.
func (c QueryContext) WithRaw(fragment string) QueryContext {
	return c.With(qs.Parse(fragment))
}
