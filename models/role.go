package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Resource names something a route protects.
type Resource string

const (
	ResourceProfile Resource = "profile"
	ResourceUsers   Resource = "users"
	ResourceCatalog Resource = "catalog"
)

var grants = map[Role]map[Resource]bool{
	RoleUser: {
		ResourceProfile: true,
	},
	RoleAdmin: {
		ResourceProfile: true,
		ResourceUsers:   true,
		ResourceCatalog: true,
	},
}

// Can reports whether role may access res. Unknown roles get nothing.
func Can(role Role, res Resource) bool {
	return grants[role][res]
}
