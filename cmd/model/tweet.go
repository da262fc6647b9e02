package model

import "time"

type Tweet struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Content   string    `json:"content" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tweet) TableName() string { return string(CollectionTweets) }

func (t *Tweet) RecordID() string       { return t.ID }
func (t *Tweet) Collection() Collection { return CollectionTweets }

func (t *Tweet) Clone() Record {
	c := *t
	return &c
}

func (t *Tweet) Field(name string) (any, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "owner_id":
		return t.OwnerID, true
	case "content":
		return t.Content, true
	case "created_at":
		return t.CreatedAt, true
	case "updated_at":
		return t.UpdatedAt, true
	}
	return nil, false
}
