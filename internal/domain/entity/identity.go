package entity

// RoleAdmin grants access to the admin console.
const RoleAdmin = "admin"

// Identity is a resolved caller.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	// Admin is set by the resolver when the configured admin list names the user.
	Admin bool `json:"-"`
}

// IsAdmin reports whether the identity may use the admin console.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	return i.Admin || i.Role == RoleAdmin
}
