package model

import "time"

// User carries credential material (PasswordHash, RefreshToken) that must never
// be projected into a view.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string    `json:"username" gorm:"type:varchar(64);uniqueIndex"`
	Email         string    `json:"email" gorm:"type:varchar(128);uniqueIndex"`
	FullName      string    `json:"full_name" gorm:"type:varchar(128)"`
	AvatarURL     string    `json:"avatar_url" gorm:"type:varchar(512)"`
	CoverImageURL string    `json:"cover_image_url" gorm:"type:varchar(512)"`
	PasswordHash  string    `json:"-" gorm:"type:varchar(255)"`
	RefreshToken  string    `json:"-" gorm:"type:varchar(512)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string { return string(CollectionUsers) }

func (u *User) RecordID() string       { return u.ID }
func (u *User) Collection() Collection { return CollectionUsers }

func (u *User) Clone() Record {
	c := *u
	return &c
}

func (u *User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "username":
		return u.Username, true
	case "full_name":
		return u.FullName, true
	case "created_at":
		return u.CreatedAt, true
	case "updated_at":
		return u.UpdatedAt, true
	}
	return nil, false
}
