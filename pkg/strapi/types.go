package strapi

import "time"

// APIResponse is the envelope every terminal operation resolves to. Exactly
// one of Data and Error is meaningful.
type APIResponse[T any] struct {
	Data  T         `json:"data"            yaml:"data"`
	Meta  *Meta     `json:"meta,omitempty"  yaml:"meta,omitempty"`
	Error *APIError `json:"error,omitempty" yaml:"error,omitempty"`
}

// Err returns Error as an error value, or nil when the call succeeded.
func (r *APIResponse[T]) Err() error {
	if r == nil || r.Error == nil {
		return nil
	}

	return r.Error
}

// Meta carries response metadata such as pagination totals.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

// Pagination describes either page-based or offset-based pagination.
type Pagination struct {
	Page      int `json:"page,omitempty"      yaml:"page,omitempty"`
	PageSize  int `json:"pageSize,omitempty"  yaml:"pageSize,omitempty"`
	PageCount int `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	Start     int `json:"start,omitempty"     yaml:"start,omitempty"`
	Limit     int `json:"limit,omitempty"     yaml:"limit,omitempty"`
	Total     int `json:"total"               yaml:"total"`
}

// BulkResponse is returned by CreateMany, UpdateMany and DeleteMany.
//
// Success is always true once every request has completed, whether or not
// individual requests failed. Error holds the first failure in item order and
// Items holds the envelope of each request in input order.
type BulkResponse[T any] struct {
	Success bool             `json:"success"         yaml:"success"`
	Error   *APIError        `json:"error,omitempty" yaml:"error,omitempty"`
	Items   []APIResponse[T] `json:"items"           yaml:"items"`
}

// Failed returns the number of items whose request failed.
func (r *BulkResponse[T]) Failed() int {
	failed := 0

	for i := range r.Items {
		if r.Items[i].Error != nil {
			failed++
		}
	}

	return failed
}

// UpdateItem is one entry of UpdateMany.
type UpdateItem struct {
	ID     any
	Values any
}

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec sorts by Field. An empty Order leaves the backend default (ascending).
type SortSpec struct {
	Field string
	Order SortOrder
}

// Asc sorts by field ascending.
func Asc(field string) SortSpec {
	return SortSpec{Field: field, Order: SortAsc}
}

// Desc sorts by field descending.
func Desc(field string) SortSpec {
	return SortSpec{Field: field, Order: SortDesc}
}

// OrCondition is one branch of an OR filter. Path is dot separated.
type OrCondition struct {
	Path     string
	Operator Operator
	Value    any
}

// PopulateChild selects one relation below a PopulateSpec.
type PopulateChild struct {
	Key    string
	Fields []string
}

// PopulateSpec describes one relation to populate.
//
// Path is dot separated; each further segment descends one populate level.
// Fields restricts the selected fields. AllChildren populates every relation
// of the target; otherwise Children lists the relations to include.
type PopulateSpec struct {
	Path        string
	Fields      []string
	AllChildren bool
	Children    []PopulateChild
}

// SignInCredentials authenticate a user with the local provider.
type SignInCredentials struct {
	Email    string `json:"identifier"`
	Password string `json:"password"`
}

// SignUpCredentials register a user with the local provider.
type SignUpCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is a users-permissions user.
type User struct {
	ID         int64     `json:"id"                   yaml:"id"`
	DocumentID string    `json:"documentId,omitempty" yaml:"documentId,omitempty"`
	Username   string    `json:"username"             yaml:"username"`
	Email      string    `json:"email"                yaml:"email"`
	Provider   string    `json:"provider,omitempty"   yaml:"provider,omitempty"`
	Confirmed  bool      `json:"confirmed"            yaml:"confirmed"`
	Blocked    bool      `json:"blocked"              yaml:"blocked"`
	CreatedAt  time.Time `json:"createdAt,omitempty"  yaml:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"  yaml:"updatedAt,omitempty"`
}

// AuthData is returned by sign-in and sign-up.
type AuthData struct {
	JWT  string `json:"jwt"  yaml:"jwt"`
	User User   `json:"user" yaml:"user"`
}

// Session is the signed-in state kept by the auth client.
type Session struct {
	AccessToken string `json:"access_token"         yaml:"access_token"`
	User        *User  `json:"user,omitempty"       yaml:"user,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// storedSession is the blob persisted in the credential store.
type storedSession struct {
	CurrentSession *Session `json:"currentSession"`
	ExpiresAt      int64    `json:"expiresAt,omitempty"`
}
