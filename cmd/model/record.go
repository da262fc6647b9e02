package model

// Collection names a record kind; it doubles as the table name.
type Collection string

const (
	CollectionVideos         Collection = "videos"
	CollectionLikes          Collection = "likes"
	CollectionSubscriptions  Collection = "subscriptions"
	CollectionComments       Collection = "comments"
	CollectionTweets         Collection = "tweets"
	CollectionPlaylists      Collection = "playlists"
	CollectionPlaylistVideos Collection = "playlist_videos"
	CollectionUsers          Collection = "users"
)

// Record is implemented by every persisted entity. Field exposes column values
// by their snake_case column name so predicates and sort keys can be evaluated
// without reflection.
type Record interface {
	RecordID() string
	Collection() Collection
	Field(name string) (any, bool)
	Clone() Record
}

// Edge is a record whose logical identity is a pair of ids rather than its
// primary key. PairKey returns the column/value pairs of that unique pair.
type Edge interface {
	Record
	PairKey() map[string]any
}

// New returns an empty record of the collection, or nil for an unknown one.
func New(c Collection) Record {
	switch c {
	case CollectionVideos:
		return &Video{}
	case CollectionLikes:
		return &Like{}
	case CollectionSubscriptions:
		return &Subscription{}
	case CollectionComments:
		return &Comment{}
	case CollectionTweets:
		return &Tweet{}
	case CollectionPlaylists:
		return &Playlist{}
	case CollectionPlaylistVideos:
		return &PlaylistVideo{}
	case CollectionUsers:
		return &User{}
	}
	return nil
}

// All lists every collection, in migration order.
func All() []Collection {
	return []Collection{
		CollectionUsers,
		CollectionVideos,
		CollectionComments,
		CollectionTweets,
		CollectionPlaylists,
		CollectionPlaylistVideos,
		CollectionLikes,
		CollectionSubscriptions,
	}
}
