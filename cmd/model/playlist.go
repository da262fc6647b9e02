package model

import "time"

type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(36);index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(128)"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Playlist) TableName() string { return string(CollectionPlaylists) }

func (p *Playlist) RecordID() string       { return p.ID }
func (p *Playlist) Collection() Collection { return CollectionPlaylists }

func (p *Playlist) Clone() Record {
	c := *p
	return &c
}

func (p *Playlist) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "owner_id":
		return p.OwnerID, true
	case "name":
		return p.Name, true
	case "created_at":
		return p.CreatedAt, true
	case "updated_at":
		return p.UpdatedAt, true
	}
	return nil, false
}

// PlaylistVideo is a playlist membership. A video appears at most once per
// playlist; Position keeps insertion order.
type PlaylistVideo struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlaylistID string    `json:"playlist_id" gorm:"type:varchar(36);not null;index:idx_member_pair,unique,priority:1"`
	VideoID    string    `json:"video_id" gorm:"type:varchar(36);not null;index:idx_member_pair,unique,priority:2;index"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PlaylistVideo) TableName() string { return string(CollectionPlaylistVideos) }

func (m *PlaylistVideo) RecordID() string       { return m.ID }
func (m *PlaylistVideo) Collection() Collection { return CollectionPlaylistVideos }

func (m *PlaylistVideo) Clone() Record {
	c := *m
	return &c
}

func (m *PlaylistVideo) PairKey() map[string]any {
	return map[string]any{"playlist_id": m.PlaylistID, "video_id": m.VideoID}
}

func (m *PlaylistVideo) Field(name string) (any, bool) {
	switch name {
	case "id":
		return m.ID, true
	case "playlist_id":
		return m.PlaylistID, true
	case "video_id":
		return m.VideoID, true
	case "position":
		return m.Position, true
	case "created_at":
		return m.CreatedAt, true
	}
	return nil, false
}
