package model

//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform lower -json -sql -output role.gen.go

// Role is the account level of a user.
type Role int

const (
	RoleUser Role = iota
	RoleDeveloper
	RoleAdmin
)

// CanManageApps reports whether the role may create and edit apps.
func (r Role) CanManageApps() bool {
	return r == RoleDeveloper || r == RoleAdmin
}
