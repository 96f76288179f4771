package models

// Identity is the authenticated staff member as returned by the auth
// endpoint and mirrored into the credential store.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
