package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that token digest is unknown
	ErrTokenNotFound = errors.New("token not found")

	// ErrPostNotFound indicates that post does not exist (or was already deleted)
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostAuthor indicates that requester is not the author of the post
	ErrNotPostAuthor = errors.New("not the author of the post")

	// ErrFollowNotFound indicates that follow edge does not exist
	ErrFollowNotFound = errors.New("follow not found")

	// ErrCacheMiss indicates that token cache has no entry for the digest
	ErrCacheMiss = errors.New("cache miss")
)
