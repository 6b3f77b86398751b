// Package strapi composes queries against a Strapi content API and returns
// every result in one uniform envelope.
//
// # Overview
//
// A Client is bound to an API root and a Transport. From (or the generic From
// function for typed entities) returns a QueryBuilder for one collection.
// Reads start with Select, SelectOne or SelectManyByID and continue on a
// FilterBuilder whose chainable methods add filters, sorting, pagination,
// publication state, locale and relation population. Get runs the read.
//
// Most consumers should construct the client with strapiclient.New, which
// wires the retrying HTTP transport, logging and the credential store.
//
//	type Article struct {
//	  ID    int    `json:"id"`
//	  Title string `json:"title"`
//	}
//
//	client, err := strapiclient.New(ctx, &strapi.Config{URL: "https://cms.example.com/api"})
//	if err != nil { log.Fatal(err) }
//
//	resp := strapi.From[Article](client, "articles").
//	  Select("title").
//	  Contains("title", "go").
//	  SortBy(strapi.Desc("publishedAt")).
//	  Paginate(1, 25).
//	  Get(ctx)
//	if resp.Error != nil { log.Fatal(resp.Error) }
//	for _, article := range resp.Data { fmt.Println(article.Title) }
//
// # Query syntax
//
// Directives are encoded in the backend's bracket syntax, for example
// filters[title][$containsi]=go, sort[0]=publishedAt:desc and
// populate[author][fields][0]=name. Each builder call merges its fragment
// into the accumulated query through package qs: a repeated scalar directive
// replaces the earlier value, list-valued directives such as $in accumulate,
// and key order follows the order of the calls.
//
// # Responses and errors
//
// Terminal operations never return a Go error. They resolve to an APIResponse
// whose Error field is set on failure. Unless DisableNormalize is set, the
// data/attributes envelopes of the response are flattened so entities decode
// directly into plain structs. Network failures, structured backend errors
// and bare HTTP errors are all mapped to APIError by NormalizeError.
//
// Bulk operations (CreateMany, UpdateMany, DeleteMany) issue their requests
// concurrently. Their BulkResponse always reports Success; the first failure
// and the per-item envelopes are available alongside.
//
// # Authentication
//
// Client.Auth returns an AuthClient for the users-permissions endpoints.
// SignIn and SignUp install the returned JWT as the bearer token and, with
// PersistSession, save the session in the configured CredentialStore so a
// later process can call RestoreSession.
package strapi
