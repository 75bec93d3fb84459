package models

import (
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	ExternalID string `gorm:"uniqueIndex" json:"external_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Role       string `gorm:"not null;default:member" json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
