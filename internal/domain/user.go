package domain

// Caller identity as asserted by the upstream auth collaborator. Token
// mechanics live outside this service.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
