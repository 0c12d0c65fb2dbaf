package domain

import (
	"time"
)

type Role string

const (
	RoleStaff      Role = "普通员工"
	RolePharmacist Role = "药剂师"
	RoleManager    Role = "店长"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
