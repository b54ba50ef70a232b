package model

// RoleService marks tokens minted with the service-role key.
const RoleService = "service_role"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	Subject string // auth user id; empty for service identities
	Email   string
	Role    string
}

func (i *Identity) IsZero() bool    { return i == nil || (i.Subject == "" && i.Role != RoleService) }
func (i *Identity) IsService() bool { return i != nil && i.Role == RoleService }

// ServiceIdentity is used for internal calls that run with elevated
// credentials (webhook delegation, reconciliation).
func ServiceIdentity() *Identity {
	return &Identity{Role: RoleService}
}

// User is the internal user row linked to an auth identity.
type User struct {
	ID         string
	AuthUserID string
	CompanyID  string
	Email      string
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
