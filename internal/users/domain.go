package users

import "time"

// Roles ordered from most to least privileged.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

// Account statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the known statuses.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// User is the administrative view of an account. Password material never
// leaves the repository layer.
type User struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
	Joined time.Time `json:"joined"`
}

// CreateInput describes a new account provisioned by an administrator.
type CreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Patch carries the updatable fields. Nil fields are left untouched.
type Patch struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}
