package twitter

import (
	"strconv"
	"time"
)

// StatusURLPrefix is prepended to a status id to build its public link.
const StatusURLPrefix = "https://twitter.com/statuses/"

// Mention is one inbound tweet addressed to the bot account.
type Mention struct {
	ID        int64     `validate:"required"`
	Text      string
	Handle    string    `validate:"required"`
	CreatedAt time.Time `validate:"required"`
}

// Age is how long ago the mention was created relative to now.
func (m Mention) Age(now time.Time) time.Duration {
	return now.Sub(m.CreatedAt)
}

// URL links to the mention.
func (m Mention) URL() string {
	return StatusURLPrefix + strconv.FormatInt(m.ID, 10)
}

// Account is the subset of the authenticated user the bot reports on.
type Account struct {
	ID              int64  `validate:"required"`
	ScreenName      string `validate:"required"`
	StatusesCount   int
	FavouritesCount int
	FriendsCount    int
	FollowersCount  int
}

// PostedStatus is a status the bot has published.
type PostedStatus struct {
	ID        int64 `validate:"required"`
	Text      string
	InReplyTo int64
}

// URL links to the posted status.
func (s PostedStatus) URL() string {
	return StatusURLPrefix + strconv.FormatInt(s.ID, 10)
}
