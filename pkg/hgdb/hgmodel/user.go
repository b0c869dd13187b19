package hgmodel

import "time"

// User is an authenticated principal. IsEditor marks principals allowed to
// moderate the contribution queue.
type User struct {
	ID        int    `json:"id"`
	UUID      string `json:"uuid"`
	Slug      string `json:"slug" gorm:"uniqueIndex"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ApiToken  string `json:"-"`
	Password  string `json:"-"`
	IsEditor  bool   `json:"is_editor"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
