package domain

const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Actor is the authenticated caller of an operation. A nil *Actor is an anonymous visitor.
// It is also the record kept in an admin session.
type Actor struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname,omitempty"`
	Role     string `json:"role"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && (a.Role == RoleAdmin || a.Role == RoleSuperadmin)
}
