package entities

// UserRole is the role flag read by the routing guards
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// CurrentUser is the trivial session record persisted under the currentUser key.
// It is a demo role flag, not an authenticated identity.
type CurrentUser struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	Name  string   `json:"name"`
}
