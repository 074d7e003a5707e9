package models

import (
	"github.com/google/uuid"
)

type Comment struct {
	ID      uuid.UUID `db:"id" json:"_id"`
	Message string    `db:"message" json:"message"`
	Sender  uuid.UUID `db:"sender_id" json:"sender"`
	PostID  uuid.UUID `db:"post_id" json:"postId"`
}
