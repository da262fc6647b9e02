package model

import "time"

// Subscription 订阅关系: subscriber_id follows channel_id. The pair is unique.
type Subscription struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SubscriberID string    `json:"subscriber_id" gorm:"type:varchar(36);not null;index:idx_sub_pair,unique,priority:1"`
	ChannelID    string    `json:"channel_id" gorm:"type:varchar(36);not null;index:idx_sub_pair,unique,priority:2;index"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subscription) TableName() string { return string(CollectionSubscriptions) }

func (s *Subscription) RecordID() string       { return s.ID }
func (s *Subscription) Collection() Collection { return CollectionSubscriptions }

func (s *Subscription) Clone() Record {
	c := *s
	return &c
}

func (s *Subscription) PairKey() map[string]any {
	return map[string]any{"subscriber_id": s.SubscriberID, "channel_id": s.ChannelID}
}

func (s *Subscription) Field(name string) (any, bool) {
	switch name {
	case "id":
		return s.ID, true
	case "subscriber_id":
		return s.SubscriberID, true
	case "channel_id":
		return s.ChannelID, true
	case "created_at":
		return s.CreatedAt, true
	}
	return nil, false
}
