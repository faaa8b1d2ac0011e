package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Post is the read projection of a platform post. Body is raw markdown; the
// gateway flattens it before anything leaves the server. DeletedAt marks a
// soft delete, and soft-deleted posts are filtered out by the store itself.
type Post struct {
	Id        uuid.UUID
	Title     string
	Body      string
	AuthorId  uuid.UUID
	CreatedAt time.Time
	DeletedAt *time.Time

	// Joined from the author row on point lookups.
	AuthorHandle    string
	AuthorProtected bool
}

func (p *Post) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tAuthor: %s \n\tTitle: %s \n\tCreatedAt: %s)", p.Id, p.AuthorHandle, p.Title, p.CreatedAt)
}
