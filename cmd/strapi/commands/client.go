package commands

import (
	"context"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/fivetwenty-io/strapi-go/pkg/strapiclient"
	"github.com/spf13/viper"
)

// clientConfig builds the client configuration from flags, environment and
// the config file.
func clientConfig() (*strapi.Config, error) {
	url := viper.GetString("url")
	if url == "" {
		return nil, constants.ErrNoURLConfigured
	}

	store := strapi.SessionStoreType(viper.GetString("session_store"))
	if store == "" {
		store = strapi.SessionStoreFile
	}

	return &strapi.Config{
		URL:              url,
		APIToken:         viper.GetString("token"),
		DisableNormalize: viper.GetBool("no_normalize"),
		Debug:            viper.GetBool("verbose"),
		PersistSession:   true,
		SessionStore:     store,
		SessionFile:      viper.GetString("session_file"),
		NATSURL:          viper.GetString("nats_url"),
		NATSBucket:       viper.GetString("nats_bucket"),
	}, nil
}

// newClient creates a client with the stored session, if any, restored.
func newClient(ctx context.Context) (*strapi.Client, error) {
	config, err := clientConfig()
	if err != nil {
		return nil, err
	}

	return strapiclient.New(ctx, config)
}
