package web

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
)

const itemsPerPage = 20

// GetOutbox returns an ActivityPub OrderedCollection of a user's public posts.
// Page 0 is the collection index; page >= 1 is a collection page. Either way
// the protection gate runs before any post query.
func GetOutbox(users domain.UserStore, posts domain.PostStore, handle string, page int, conf *util.AppConfig) (string, error) {
	user, err := users.FindByHandle(handle)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsProtected {
		log.Printf("GetOutbox: no visible user %s", handle)
		return "", ErrNotFound
	}

	domainName := conf.Domain()
	outboxURL := getIRI(domainName, user.Handle, outbox)

	// If no page parameter, return the collection metadata
	if page == 0 {
		total, err := posts.CountByAuthor(user.Id)
		if err != nil {
			log.Printf("GetOutbox: Failed to count posts for %s: %v", handle, err)
			return "", err
		}

		// An empty outbox still points last at page 1, never page 0
		lastPage := (total + itemsPerPage - 1) / itemsPerPage
		if lastPage < 1 {
			lastPage = 1
		}

		collection := map[string]interface{}{
			"@context":   "https://www.w3.org/ns/activitystreams",
			"id":         outboxURL,
			"type":       "OrderedCollection",
			"totalItems": total,
			"first":      fmt.Sprintf("%s?page=1", outboxURL),
			"last":       fmt.Sprintf("%s?page=%d", outboxURL, lastPage),
		}

		jsonData, err := json.Marshal(collection)
		if err != nil {
			log.Printf("GetOutbox: Failed to marshal collection: %v", err)
			return "", err
		}
		return string(jsonData), nil
	}

	// Return a paginated collection page
	return getOutboxPage(posts, user, page, domainName)
}

func getOutboxPage(posts domain.PostStore, user *domain.User, page int, domainName string) (string, error) {
	offset := (page - 1) * itemsPerPage

	pagePosts, err := posts.FindByAuthor(user.Id, itemsPerPage, offset)
	if err != nil {
		log.Printf("GetOutbox: Failed to fetch posts page %d for %s: %v", page, user.Handle, err)
		return "", err
	}

	outboxURL := getIRI(domainName, user.Handle, outbox)
	pageURL := fmt.Sprintf("%s?page=%d", outboxURL, page)

	items := makePostActivities(pagePosts, user.Handle, domainName)

	collectionPage := map[string]interface{}{
		"@context":     "https://www.w3.org/ns/activitystreams",
		"id":           pageURL,
		"type":         "OrderedCollectionPage",
		"partOf":       outboxURL,
		"orderedItems": items,
	}

	// A full page is the only hint that there may be more
	if len(pagePosts) == itemsPerPage {
		collectionPage["next"] = fmt.Sprintf("%s?page=%d", outboxURL, page+1)
	}

	// Add prev link if not first page
	if page > 1 {
		collectionPage["prev"] = fmt.Sprintf("%s?page=%d", outboxURL, page-1)
	}

	jsonData, err := json.Marshal(collectionPage)
	if err != nil {
		log.Printf("GetOutbox: Failed to marshal collection page: %v", err)
		return "", err
	}
	return string(jsonData), nil
}

// makePostActivities converts posts to ActivityPub Create activities
func makePostActivities(posts []domain.Post, handle string, domainName string) []interface{} {
	activities := make([]interface{}, 0, len(posts))

	for _, post := range posts {
		activities = append(activities, makeActivity(post, handle, domainName))
	}

	return activities
}

// ParsePageParam extracts the page parameter from a query string
func ParsePageParam(pageStr string) int {
	if pageStr == "" {
		return 0
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
