package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
	"github.com/google/uuid"
)

const publicAudience = "https://www.w3.org/ns/activitystreams#Public"

// GetNoteObject returns a post as a standalone ActivityPub Note, wrapped in
// @context. Absent posts, soft-deleted posts and posts by protected authors
// are all the same ErrNotFound.
func GetNoteObject(posts domain.PostStore, noteId uuid.UUID, conf *util.AppConfig) (string, error) {
	post, err := posts.FindById(noteId)
	if err != nil {
		return "", err
	}
	if post == nil || post.AuthorProtected {
		return "", ErrNotFound
	}

	noteObj := makeNote(*post, post.AuthorHandle, conf.Domain())
	noteObj["@context"] = "https://www.w3.org/ns/activitystreams"

	jsonBytes, err := json.Marshal(noteObj)
	if err != nil {
		return "", err
	}

	return string(jsonBytes), nil
}

// makeNote builds the Note object for a post. The body is flattened to
// escaped plain text; the title is emitted as "name" only when present.
func makeNote(post domain.Post, handle string, domainName string) map[string]interface{} {
	content := fmt.Sprintf("<p>%s</p>", util.Flatten(post.Body))

	noteObj := map[string]interface{}{
		"id":           noteIRI(domainName, post.Id),
		"type":         "Note",
		"attributedTo": getIRI(domainName, handle, actorId),
		"content":      content,
		"contentMap": map[string]string{
			"en": content,
		},
		"published": post.CreatedAt.Format(time.RFC3339),
		"url":       fmt.Sprintf("https://%s/p/%s", domainName, post.Id),
		"to": []string{
			publicAudience,
		},
		"cc": []string{
			getIRI(domainName, handle, followers),
		},
	}

	if post.Title != "" {
		noteObj["name"] = post.Title
	}

	return noteObj
}

// makeActivity wraps a post's Note in its Create activity.
func makeActivity(post domain.Post, handle string, domainName string) map[string]interface{} {
	noteURI := noteIRI(domainName, post.Id)

	return map[string]interface{}{
		"id":        fmt.Sprintf("%s/activity", noteURI),
		"type":      "Create",
		"actor":     getIRI(domainName, handle, actorId),
		"published": post.CreatedAt.Format(time.RFC3339),
		"to": []string{
			publicAudience,
		},
		"cc": []string{
			getIRI(domainName, handle, followers),
		},
		"object": makeNote(post, handle, domainName),
	}
}

func noteIRI(domainName string, id uuid.UUID) string {
	return fmt.Sprintf("https://%s/ap/posts/%s", domainName, id)
}
