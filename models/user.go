package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level stored in users.roleid.
type Role int

const (
	RoleAdmin    Role = 1
	RoleCustomer Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCustomer:
		return "customer"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// ParseRole accepts either the name ("admin", "customer") or the numeric id.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator", "1":
		return RoleAdmin, nil
	case "customer", "2":
		return RoleCustomer, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID               uint      `gorm:"column:userid;primaryKey;autoIncrement" json:"id"`
	Username         string    `gorm:"column:username;size:100;uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"column:email;size:255;not null" json:"email"`
	PasswordHash     string    `gorm:"column:passwordhash;not null" json:"-"`
	Role             Role      `gorm:"column:roleid;not null;default:2" json:"role"`
	IsActive         bool      `gorm:"column:isactive;not null;default:true" json:"is_active"`
	RegistrationDate time.Time `gorm:"column:registrationdate;not null" json:"registration_date"`
}

func (User) TableName() string { return "users" }

// Identity returns who this user is, without credentials.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Identity is the authenticated principal carried by a session.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (i Identity) IsAdmin() bool    { return i.Role == RoleAdmin }
func (i Identity) IsCustomer() bool { return i.Role == RoleCustomer }
