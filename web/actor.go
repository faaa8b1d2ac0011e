package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
)

type action uint

const (
	actorId action = iota
	inbox
	outbox
	followers
	following
	sharedInbox
	profilePage
)

// GetActor projects a non-protected user into an ActivityStreams Person
// document. A protected or unknown handle both come back as ErrNotFound.
func GetActor(users domain.UserStore, handle string, conf *util.AppConfig) (string, error) {
	user, err := users.FindByHandle(handle)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsProtected {
		return "", ErrNotFound
	}

	domainName := conf.Domain()

	// Use DisplayName if available, otherwise use the handle
	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Handle
	}

	person := map[string]interface{}{
		"@context": []string{
			"https://www.w3.org/ns/activitystreams",
			"https://w3id.org/security/v1",
		},
		"id":                        getIRI(domainName, user.Handle, actorId),
		"type":                      "Person",
		"preferredUsername":         user.Handle,
		"name":                      displayName,
		"summary":                   user.Bio,
		"inbox":                     getIRI(domainName, user.Handle, inbox),
		"outbox":                    getIRI(domainName, user.Handle, outbox),
		"followers":                 getIRI(domainName, user.Handle, followers),
		"following":                 getIRI(domainName, user.Handle, following),
		"url":                       getIRI(domainName, user.Handle, profilePage),
		"published":                 user.CreatedAt.Format(time.RFC3339),
		"manuallyApprovesFollowers": false,
		"discoverable":              true,
		"endpoints": map[string]interface{}{
			"sharedInbox": getIRI(domainName, user.Handle, sharedInbox),
		},
	}

	if user.AvatarKey != "" {
		person["icon"] = map[string]interface{}{
			"type": "Image",
			"url":  fmt.Sprintf("https://%s/media/%s", domainName, user.AvatarKey),
		}
	}

	jsonBytes, err := json.Marshal(person)
	if err != nil {
		return "", err
	}

	return string(jsonBytes), nil
}

func getIRI(domainName string, handle string, action action) string {

	prefix := fmt.Sprintf("https://%s/ap/users/%s", domainName, handle)
	switch action {
	case inbox:
		return fmt.Sprintf("%s/inbox", prefix)
	case outbox:
		return fmt.Sprintf("%s/outbox", prefix)
	case followers:
		return fmt.Sprintf("%s/followers", prefix)
	case following:
		return fmt.Sprintf("%s/following", prefix)
	case actorId:
		return prefix
	case sharedInbox:
		return fmt.Sprintf("https://%s/ap/inbox", domainName)
	case profilePage:
		return fmt.Sprintf("https://%s/u/%s", domainName, handle)
	default:
		return ""
	}
}
