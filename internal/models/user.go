package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleRegistrar UserRole = "REGISTRAR"
	RoleCounselor UserRole = "COUNSELOR"
	RoleNurse     UserRole = "NURSE"
	RoleTeacher   UserRole = "TEACHER"
)

var userRoleDisplay = newDisplayTable(
	entry(RoleAdmin, "Administrator", "red"),
	entry(RoleRegistrar, "Registrar", "blue"),
	entry(RoleCounselor, "Counselor", "purple"),
	entry(RoleNurse, "School Nurse", "teal"),
	entry(RoleTeacher, "Teacher", "green"),
)

func (r UserRole) Label() string { return userRoleDisplay.lookup(r).Label }
func (r UserRole) Valid() bool   { return userRoleDisplay.valid(r) }

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
