package model

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// AdminUsername is the distinguished account that can be neither deleted nor
// have its concurrency exemption changed.
const AdminUsername = "admin"

// User is a credential record as persisted in users.json.
// Password holds a bcrypt hash, or a plaintext value for records written
// before hashing was introduced.
type User struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            Role   `json:"role"`
	AllowConcurrent bool   `json:"allowConcurrent"`
	CreatedAt       int64  `json:"createdAt"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var aux struct {
		Username        looseString `json:"username"`
		Password        looseString `json:"password"`
		Role            looseString `json:"role"`
		AllowConcurrent looseBool   `json:"allowConcurrent"`
		CreatedAt       looseInt    `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User{
		Username:        string(aux.Username),
		Password:        string(aux.Password),
		Role:            Role(aux.Role),
		AllowConcurrent: bool(aux.AllowConcurrent),
		CreatedAt:       int64(aux.CreatedAt),
	}
	return nil
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Exempt reports whether concurrent-login control is skipped for the user.
func (u User) Exempt() bool {
	return u.IsAdmin() || u.AllowConcurrent
}

// DefaultAdmin is the bootstrap account used when no credential data exists.
func DefaultAdmin() User {
	return User{
		Username:  AdminUsername,
		Password:  "admin",
		Role:      RoleAdmin,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// Session is one active login. It lives only in memory.
type Session struct {
	Token      string
	IP         string
	LastActive time.Time
}
