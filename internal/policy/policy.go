package policy

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw claim value to a defined role. Anything that is not
// exactly "admin" collapses to RoleUser, so an unknown or misspelled role
// can never gain write access.
func ParseRole(raw string) Role {
	if Role(raw) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type Operation string

const (
	OpReadList Operation = "read-list"
	OpReadOne  Operation = "read-one"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

var allowed = map[Role]map[Operation]bool{
	RoleAdmin: {
		OpReadList: true,
		OpReadOne:  true,
		OpCreate:   true,
		OpUpdate:   true,
		OpDelete:   true,
	},
	RoleUser: {
		OpReadList: true,
		OpReadOne:  true,
	},
}

// IsAllowed is the whole access policy: deny unless the table says otherwise.
func IsAllowed(role Role, op Operation) bool {
	return allowed[ParseRole(string(role))][op]
}
