package storeauth

// UserRole is the account's role
type UserRole = string

const (
	// RoleCustomer is a storefront customer
	RoleCustomer UserRole = "customer"
	// RoleEmployee is a back office employee
	RoleEmployee UserRole = "employee"
	// RoleAdmin is an employee with administrative privileges
	RoleAdmin UserRole = "admin"
)

// ValidUserType checks if the directory partition tag is one of the
// predefined user types
func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeCustomer, UserTypeEmployee:
		return true
	default:
		return false
	}
}

// ValidRole checks if the role is one of the predefined valid roles
func ValidRole(r UserRole) bool {
	switch r {
	case RoleCustomer, RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleAllowed checks membership of a role in a route allow list. An empty
// allow list admits any valid role.
func RoleAllowed(role UserRole, allowed ...UserRole) bool {
	if !ValidRole(role) {
		return false
	}

	if len(allowed) == 0 {
		return true
	}

	for _, a := range allowed {
		if role == a {
			return true
		}
	}

	return false
}

// IsAtLeast checks if this role meets the minimum required level
func IsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleCustomer: 0,
		RoleEmployee: 1,
		RoleAdmin:    2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleCustomer,
		RoleEmployee,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, ValidRole(role)
}
