package security

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Permission representa uma permissão específica
type Permission string

const (
	// User permissions
	PermissionUserRead   Permission = "users.read"
	PermissionUserWrite  Permission = "users.write"
	PermissionUserDelete Permission = "users.delete"

	// Message catalog permissions
	PermissionMessageRead  Permission = "messages.read"
	PermissionMessageWrite Permission = "messages.write"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionUserDelete,
		PermissionMessageRead,
		PermissionMessageWrite,
	},
	RoleUser: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionMessageRead,
	},
	RoleGuest: {
		PermissionUserRead,
	},
}

// IsValid verifica se o role é conhecido
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
