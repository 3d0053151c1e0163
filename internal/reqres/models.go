// Package reqres maps the reqres.in demo API onto the contract harness:
// response records, request payloads, and one typed method per endpoint.
package reqres

// UserData is one entry of a users page.
type UserData struct {
	ID        int    `json:"id" contract:"required"`
	Email     string `json:"email" contract:"required"`
	FirstName string `json:"first_name" contract:"required"`
	LastName  string `json:"last_name" contract:"required"`
	Avatar    string `json:"avatar" contract:"required"`
}

// UserPage is the paginated users listing.
type UserPage struct {
	Page       int        `json:"page" contract:"required"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Data       []UserData `json:"data" contract:"required"`
}

// Registration is the register request payload. Password is omitted when
// empty so the missing-password case sends no password key at all.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// RegistrationResult is either a success (ID and Token) or a failure (Error).
type RegistrationResult struct {
	ID    *int    `json:"id,omitempty"`
	Token *string `json:"token,omitempty"`
	Error *string `json:"error,omitempty"`
}

// Succeeded reports whether the result is the success variant.
func (r RegistrationResult) Succeeded() bool {
	return r.ID != nil && r.Token != nil && r.Error == nil
}

// ColorEntry is one entry of the unknown-resource listing.
type ColorEntry struct {
	ID           int    `json:"id" contract:"required"`
	Name         string `json:"name"`
	Year         int    `json:"year" contract:"required"`
	Color        string `json:"color"`
	PantoneValue string `json:"pantone_value"`
}

// UserUpdate is the update request payload.
type UserUpdate struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// TimeUpdateResult is the update response. UpdatedAt is kept as sent so the
// caller decides how to parse and compare it.
type TimeUpdateResult struct {
	Name      string `json:"name"`
	Job       string `json:"job"`
	UpdatedAt string `json:"updatedAt" contract:"required"`
}
