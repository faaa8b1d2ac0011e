package domain

import "github.com/google/uuid"

// UserStore is the read capability the gateway borrows from the platform's
// user storage. Absent rows come back as (nil, nil); errors are I/O only.
type UserStore interface {
	FindByHandle(handle string) (*User, error)
}

// PostStore is the read capability over the platform's posts. Every method
// excludes soft-deleted rows by contract, so callers never see them.
type PostStore interface {
	CountByAuthor(authorId uuid.UUID) (int, error)
	FindByAuthor(authorId uuid.UUID, limit int, offset int) ([]Post, error)
	FindById(id uuid.UUID) (*Post, error)
}
