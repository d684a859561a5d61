package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles issued by the identity backend.
type UserRole string

const (
	RoleAdmin       UserRole = "ADMIN"
	RoleCoordinator UserRole = "COORDINATOR"
	RoleTeacher     UserRole = "TEACHER"
)

// JWTClaims is the access token payload; Role drives route access.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	TeacherID int64    `json:"teacher_id,omitempty"`
	jwt.RegisteredClaims
}
