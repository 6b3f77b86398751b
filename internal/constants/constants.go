package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as connecting to NATS.
	ShortHTTPTimeout = 10 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "strapi-go"
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit limits concurrent requests issued by bulk operations.
	DefaultConcurrencyLimit = 3
)

// Session storage.
const (
	// StorageKey is the key the signed-in session is stored under.
	StorageKey = "strapi.auth.token"

	// DefaultNATSBucket is the JetStream key-value bucket for sessions.
	DefaultNATSBucket = "strapi_sessions"

	// DefaultSessionTTL bounds how long a session is kept in the NATS bucket.
	DefaultSessionTTL = 30 * 24 * time.Hour

	// TokenExpirationBuffer is subtracted from a token's expiry before it is considered stale.
	TokenExpirationBuffer = 30 * time.Second
)

// Auth endpoints, relative to the API URL.
const (
	// EndpointSignIn authenticates with identifier and password.
	EndpointSignIn = "/auth/local"

	// EndpointSignUp registers a new user.
	EndpointSignUp = "/auth/local/register"

	// EndpointMe returns the authenticated user.
	EndpointMe = "/users/me"
)

// Collections with special handling.
const (
	// UsersCollection holds users-permissions entities, which are not wrapped in data envelopes.
	UsersCollection = "users"
)

// Query values.
const (
	// PopulateAll selects every relation.
	PopulateAll = "*"

	// PublicationStatePreview includes drafts in results.
	PublicationStatePreview = "preview"
)

// Boolean string constant.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLength is the default length for truncating table cells.
	StringTruncationLength = 60
)
