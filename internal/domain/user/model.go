package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an operator account. PasswordHash never leaves the process.
type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// Changes is the column set handed to the repository; PasswordHash is
// already hashed.
type Changes struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil && c.Role == nil
}
