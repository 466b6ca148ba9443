package auth

import "fmt"

// Role is the closed set of account kinds. The string values are the wire
// and database representation and must not change once users exist.
type Role string

const (
	RoleBusinessOwner Role = "empresario"
	RoleEntrepreneur  Role = "emprendedor"
	RoleInvestor      Role = "inversionista"
	RoleInstitution   Role = "institucion"
	RoleAdmin         Role = "admin"
)

var allRoles = []Role{
	RoleBusinessOwner,
	RoleEntrepreneur,
	RoleInvestor,
	RoleInstitution,
	RoleAdmin,
}

func ParseRole(val string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == val {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", val)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
