package models

import (
	"time"
)

// Vote records that a user has upvoted a post. The row's existence is the
// vote; removing the upvote deletes the row. The combination of UserID and
// PostID must be unique — the index is the authoritative guard against two
// concurrent upvotes from the same user slipping past the handler's check.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Post *Post `gorm:"foreignKey:PostID" json:"-"`
}
