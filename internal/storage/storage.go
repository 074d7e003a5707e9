package storage

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTokenNotInSet is returned by the conditional rotation update when the
	// presented refresh token is no longer part of the account's active set.
	ErrTokenNotInSet = errors.New("refresh token not in active set")
)
