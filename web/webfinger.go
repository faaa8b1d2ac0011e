package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
)

type WebFingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}

type WebFingerResponse struct {
	Subject string          `json:"subject"`
	Links   []WebFingerLink `json:"links"`
}

// GetWebfinger resolves an acct: resource to the discovery document for a
// local, non-protected user. The domain comparison is case-sensitive and a
// mismatch is a plain not-found, the same answer an unknown or protected
// handle gets.
func GetWebfinger(users domain.UserStore, resource string, conf *util.AppConfig) (string, error) {
	local, resourceDomain, err := parseResource(resource)
	if err != nil {
		return "", err
	}

	domainName := conf.Domain()
	if resourceDomain != domainName {
		return "", ErrNotFound
	}

	user, err := users.FindByHandle(local)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsProtected {
		return "", ErrNotFound
	}

	doc := WebFingerResponse{
		Subject: fmt.Sprintf("acct:%s@%s", user.Handle, domainName),
		Links: []WebFingerLink{
			{
				Rel:  "self",
				Type: "application/activity+json",
				Href: getIRI(domainName, user.Handle, actorId),
			},
			{
				Rel:  "http://webfinger.net/rel/profile-page",
				Type: "text/html",
				Href: getIRI(domainName, user.Handle, profilePage),
			},
		},
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

// parseResource splits "acct:<local>@<domain>" into its parts. The local
// part must be non-empty and the separator present; the domain part is
// whatever remains and is validated against the configured domain by the
// caller.
func parseResource(resource string) (string, string, error) {
	if resource == "" {
		return "", "", ErrInvalidResource
	}

	rest, ok := strings.CutPrefix(resource, "acct:")
	if !ok {
		return "", "", ErrInvalidResource
	}

	local, resourceDomain, ok := strings.Cut(rest, "@")
	if !ok || local == "" {
		return "", "", ErrInvalidResource
	}

	return local, resourceDomain, nil
}
