package model

import (
	"net/url"
	"time"
)

type Picture struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	UserName  string    `db:"user_name"` // uploader's name at upload time
	Title     string    `db:"title"`
	Contents  string    `db:"contents"`
	ImagePath string    `db:"image_path"` // object store key
	CreatedAt time.Time `db:"created_at"`
}

func (p *Picture) OwnedBy(userID int64) bool {
	return p.UserID == userID
}

// ImageURL is the public, unauthenticated path the image is served from.
func (p *Picture) ImageURL() string {
	return "/api/images/" + url.PathEscape(p.ImagePath)
}
