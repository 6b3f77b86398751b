// Package strapiclient is the entry point for constructing a strapi.Client
// with the default retrying HTTP transport, slog logging and a credential
// store chosen from the configuration.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/strapi-go/pkg/strapi"
//	  "github.com/fivetwenty-io/strapi-go/pkg/strapiclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Public content, no token.
//	  client, err := strapiclient.New(ctx, &strapi.Config{URL: "cms.example.com/api"})
//	  if err != nil { log.Fatal(err) }
//	  defer client.Close()
//
//	  // Or with an API token:
//	  client, err = strapiclient.NewWithToken(ctx, "https://cms.example.com/api", "token")
//
//	  // Or with sessions shared through a NATS JetStream bucket:
//	  client, err = strapiclient.New(ctx, &strapi.Config{
//	    URL:            "https://cms.example.com/api",
//	    PersistSession: true,
//	    SessionStore:   strapi.SessionStoreNATS,
//	    NATSURL:        "nats://127.0.0.1:4222",
//	  })
//	}
//
// A URL without a scheme is assumed to be https. When PersistSession is set,
// New restores a previously saved session so the bearer token of the last
// sign-in is sent right away; an expired or missing session is not an error.
package strapiclient
