package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Parent  UserRole = "parent"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username     string    `gorm:"size:80;unique;not null" json:"username"`
	Password     string    `gorm:"size:128;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'student'" json:"role"`
	IsFirstLogin bool      `gorm:"default:true" json:"isFirstLogin"`
	Nickname     string    `gorm:"size:80" json:"nickname"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	ParentID     *uint     `gorm:"index" json:"parentId,omitempty"` // 保護者1人に生徒複数
	UserLevel    int       `gorm:"default:1" json:"userLevel"`
	Medals       int       `gorm:"default:0" json:"medals"`
	UserTitle    string    `gorm:"size:100;default:'見習い'" json:"userTitle"`
	LastLogin    time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

func (u *User) IsStudent() bool {
	return u.Role == Student
}

func (u *User) IsParent() bool {
	return u.Role == Parent
}
