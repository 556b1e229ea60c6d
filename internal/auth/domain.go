package auth

import "time"

// Account represents a back-office user account as seen by authentication.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
}

// Active reports whether the account may log in.
func (a *Account) Active() bool {
	return a != nil && a.Status == "Active"
}

// Profile is the JSON shape returned to clients. The password hash never
// leaves this package.
type Profile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Joined string `json:"joined"`
}

// ProfileOf converts an account into its public profile.
func ProfileOf(a *Account) Profile {
	return Profile{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Role:   a.Role,
		Status: a.Status,
		Joined: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
