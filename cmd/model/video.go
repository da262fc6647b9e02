package model

import "time"

type Video struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID      string    `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Title        string    `json:"title" gorm:"type:varchar(255)"`
	Description  string    `json:"description" gorm:"type:text"`
	VideoURL     string    `json:"video_url" gorm:"type:varchar(512)"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"type:varchar(512)"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views" gorm:"default:0"`
	IsPublished  bool      `json:"is_published" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Video) TableName() string { return string(CollectionVideos) }

func (v *Video) RecordID() string       { return v.ID }
func (v *Video) Collection() Collection { return CollectionVideos }

func (v *Video) Clone() Record {
	c := *v
	return &c
}

func (v *Video) Field(name string) (any, bool) {
	switch name {
	case "id":
		return v.ID, true
	case "owner_id":
		return v.OwnerID, true
	case "title":
		return v.Title, true
	case "description":
		return v.Description, true
	case "duration":
		return v.Duration, true
	case "views":
		return v.Views, true
	case "is_published":
		return v.IsPublished, true
	case "created_at":
		return v.CreatedAt, true
	case "updated_at":
		return v.UpdatedAt, true
	}
	return nil, false
}
