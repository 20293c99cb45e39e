package domain

// Roles understood by the Finance Tracker API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity returned by the auth endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is a User plus the bearer token issued at login or registration.
// It is persisted wholesale and is the shape of the auth responses.
type Session struct {
	User
	Token string `json:"token"`
}

// Authenticated reports whether the session carries a bearer token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// HasRole is a capability check over explicit session data. An anonymous
// (nil or tokenless) session has no roles.
func HasRole(s *Session, role string) bool {
	if !s.Authenticated() {
		return false
	}
	return s.Role == role
}

// DisplayName returns the name to show for the session's user.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}
