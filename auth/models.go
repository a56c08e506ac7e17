package auth

import "time"

type Role string

const (
	RoleAgent       Role = "agent"
	RoleBrokerAdmin Role = "broker_admin"
	RoleClient      Role = "client"
)

// User is the domain representation of a provisioned user. It mirrors the
// users table and carries no JSON annotations so it can be reused by
// different presentation layers. Clients provisioned under a broker are what
// the directory lookup resolves client-name filters against.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Phone        *string
	Languages    []string
	BrokerID     *string
	Rating       float64
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest contains user registration data supplied by callers.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	// BrokerID attaches the new user to a brokerage; required for clients so
	// they are visible to that broker's analytics filters.
	BrokerID string `json:"broker_id"`
}

// LoginRequest contains user login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
