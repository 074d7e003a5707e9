package models

import (
	"github.com/google/uuid"
)

type Post struct {
	ID      uuid.UUID `db:"id" json:"_id"`
	Title   string    `db:"title" json:"title"`
	Content string    `db:"content" json:"content,omitempty"`
	Sender  uuid.UUID `db:"sender_id" json:"sender"`
}
