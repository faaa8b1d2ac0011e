package web

import (
	"fmt"
	"log"
	"time"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
	"github.com/google/uuid"
	"github.com/gorilla/feeds"
)

const rssWindow = 50

// GetRSS renders a user's visible posts as RSS 2.0, under the same
// protection and deletion gates as the ActivityPub surface.
func GetRSS(users domain.UserStore, posts domain.PostStore, handle string, conf *util.AppConfig) (string, error) {
	user, err := users.FindByHandle(handle)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsProtected {
		log.Printf("GetRSS: no visible user %s", handle)
		return "", ErrNotFound
	}

	userPosts, err := posts.FindByAuthor(user.Id, rssWindow, 0)
	if err != nil {
		log.Printf("GetRSS: could not get posts from %s: %v", handle, err)
		return "", err
	}

	domainName := conf.Domain()
	link := fmt.Sprintf("https://%s/u/%s", domainName, user.Handle)
	email := fmt.Sprintf("%s@%s", user.Handle, domainName)

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Folio Posts - %s", user.Handle),
		Link:        &feeds.Link{Href: link},
		Description: fmt.Sprintf("reading notes and posts by %s", user.Handle),
		Author:      &feeds.Author{Name: user.Handle, Email: email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, post := range userPosts {
		title := post.Title
		if title == "" {
			title = post.CreatedAt.Format(util.DateTimeFormat())
		}
		feedItems = append(feedItems,
			&feeds.Item{
				Id:      post.Id.String(),
				Title:   title,
				Link:    &feeds.Link{Href: fmt.Sprintf("https://%s/p/%s", domainName, post.Id)},
				Content: fmt.Sprintf("<p>%s</p>", util.Flatten(post.Body)),
				Author:  &feeds.Author{Name: user.Handle, Email: email},
				Created: post.CreatedAt,
			})
	}

	feed.Items = feedItems
	return feed.ToRss()
}

// GetRSSItem renders a single visible post as a one-item feed.
func GetRSSItem(posts domain.PostStore, id uuid.UUID, conf *util.AppConfig) (string, error) {
	post, err := posts.FindById(id)
	if err != nil {
		return "", err
	}
	if post == nil || post.AuthorProtected {
		log.Printf("GetRSSItem: no visible post %s", id)
		return "", ErrNotFound
	}

	domainName := conf.Domain()
	url := fmt.Sprintf("https://%s/p/%s", domainName, post.Id)
	email := fmt.Sprintf("%s@%s", post.AuthorHandle, domainName)

	title := post.Title
	if title == "" {
		title = post.CreatedAt.Format(util.DateTimeFormat())
	}

	feed := &feeds.Feed{
		Title:       "Single Folio Post",
		Link:        &feeds.Link{Href: url},
		Description: fmt.Sprintf("a post by %s", post.AuthorHandle),
		Author:      &feeds.Author{Name: post.AuthorHandle, Email: email},
		Created:     time.Now(),
	}

	feed.Items = []*feeds.Item{
		{
			Id:      post.Id.String(),
			Title:   title,
			Link:    &feeds.Link{Href: url},
			Content: fmt.Sprintf("<p>%s</p>", util.Flatten(post.Body)),
			Author:  &feeds.Author{Name: post.AuthorHandle, Email: email},
			Created: post.CreatedAt,
		},
	}

	return feed.ToRss()
}
