package constants

import "fmt"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

var (
	AllRoles       = []string{RoleAdmin, RoleEmployee}
	AdminOnly      = []string{RoleAdmin}
	EmployeeAccess = []string{RoleEmployee, RoleAdmin}
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyEmployeesCanAccess = "❌ Hanya karyawan yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorEmployee(feature string) string {
	return fmt.Sprintf(ErrOnlyEmployeesCanAccess, feature)
}

// IsValidRole: role yang dikenal sistem.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
