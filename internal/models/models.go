package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleUser, RoleEditor, RoleAdmin:
		return r, true
	}
	return "", false
}

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"       json:"uid"`
	FirstName    string    `gorm:"not null"                          json:"first_name"`
	LastName     string    `gorm:"not null"                          json:"last_name"`
	Email        string    `gorm:"uniqueIndex;not null"              json:"email"`
	PasswordHash string    `gorm:"not null"                          json:"-"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Role         Role      `gorm:"type:varchar(16);index;not null;default:user" json:"role"`
	IsVerified   bool      `gorm:"not null;default:false"            json:"is_verified"`
	IsPremium    bool      `gorm:"not null;default:false"            json:"is_premium"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Courses      []Course  `gorm:"foreignKey:UserID"                 json:"courses,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name string `gorm:"uniqueIndex;not null"      json:"name"`
}

type Course struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"uid"`
	Title       string         `gorm:"not null"                    json:"title"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `gorm:"serializer:json;type:text"   json:"courses"`
	UserID      string         `gorm:"type:varchar(36);index"      json:"user_uid"`
	User        *User          `gorm:"foreignKey:UserID"           json:"user,omitempty"`
	Tags        []Tag          `gorm:"many2many:course_tags;"      json:"tags"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Like struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"user_uid"`
	CourseID  string    `gorm:"type:varchar(36);primaryKey" json:"course_uid"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokedToken blacklists a jti. ExpiresAt is the natural expiry of the
// revoked token; past it the row is only kept until the sweeper runs.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	TokenJTI  string    `gorm:"uniqueIndex;not null"     json:"token_jti"`
	ExpiresAt time.Time `gorm:"index;not null"           json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func All() []any {
	return []any{&User{}, &Tag{}, &Course{}, &Like{}, &RevokedToken{}}
}
