package models

// Role defines the user role type
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// IsSignupRole reports whether self-service signup supports the role.
// Teacher and admin accounts are provisioned administratively.
func (r Role) IsSignupRole() bool {
	return r == RoleStudent || r == RoleParent
}
