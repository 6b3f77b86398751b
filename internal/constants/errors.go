package constants

import "errors"

// Configuration errors.
var (
	ErrNoURLConfigured  = errors.New("no API URL configured, use 'strapi config set url <url>' or --url")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrNotLoggedIn      = errors.New("not logged in, use 'strapi login' first")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidSortOrder    = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidFilter       = errors.New("filter must look like field:operator:value")
	ErrInvalidPayload      = errors.New("payload must be a JSON object")
)
