package domain

const (
	// Admin manages the platform: users, content, roles.
	RoleAdmin = "admin"
	// Educator authors and manages courses.
	RoleEducator = "educator"
	// Student is the default role for newly activated accounts.
	RoleStudent = "student"
)

func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleEducator || r == RoleStudent
}
