package model

import "time"

// Like target kinds.
const (
	TargetVideo   = "video"
	TargetComment = "comment"
	TargetTweet   = "tweet"
)

// Like is an engagement edge. (liked_by, target_kind, target_id) is unique.
type Like struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LikedBy    string    `json:"liked_by" gorm:"type:varchar(36);not null;index:idx_like_pair,unique,priority:1"`
	TargetKind string    `json:"target_kind" gorm:"type:varchar(16);not null;index:idx_like_pair,unique,priority:2;index:idx_like_target,priority:1"`
	TargetID   string    `json:"target_id" gorm:"type:varchar(36);not null;index:idx_like_pair,unique,priority:3;index:idx_like_target,priority:2"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Like) TableName() string { return string(CollectionLikes) }

func (l *Like) RecordID() string       { return l.ID }
func (l *Like) Collection() Collection { return CollectionLikes }

func (l *Like) Clone() Record {
	c := *l
	return &c
}

func (l *Like) PairKey() map[string]any {
	return map[string]any{"liked_by": l.LikedBy, "target_kind": l.TargetKind, "target_id": l.TargetID}
}

func (l *Like) Field(name string) (any, bool) {
	switch name {
	case "id":
		return l.ID, true
	case "liked_by":
		return l.LikedBy, true
	case "target_kind":
		return l.TargetKind, true
	case "target_id":
		return l.TargetID, true
	case "created_at":
		return l.CreatedAt, true
	}
	return nil, false
}

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	VideoID   string    `json:"video_id" gorm:"type:varchar(36);index;not null"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return string(CollectionComments) }

func (c *Comment) RecordID() string       { return c.ID }
func (c *Comment) Collection() Collection { return CollectionComments }

func (c *Comment) Clone() Record {
	cp := *c
	return &cp
}

func (c *Comment) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "video_id":
		return c.VideoID, true
	case "owner_id":
		return c.OwnerID, true
	case "content":
		return c.Content, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return nil, false
}
