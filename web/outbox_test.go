package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/folionet/folio/domain"
)

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty string", "", 0},
		{"valid page 1", "1", 1},
		{"valid page 5", "5", 5},
		{"invalid string", "abc", 0},
		{"negative number", "-1", 0},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParsePageParam(tt.input)
			if result != tt.expected {
				t.Errorf("ParsePageParam(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

// seedOutbox creates a public user with count posts, oldest first.
func seedOutbox(count int) (*fakeUserStore, *fakePostStore, domain.User) {
	users := newFakeUserStore()
	user := newTestUser("alice", false)
	users.add(user)

	posts := newFakePostStore(users)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		posts.add(newTestPost(user.Id, "", fmt.Sprintf("post number %d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	return users, posts, user
}

func getOutboxJSON(t *testing.T, users *fakeUserStore, posts *fakePostStore, handle string, page int) map[string]interface{} {
	t.Helper()

	result, err := GetOutbox(users, posts, handle, page, newTestConf())
	if err != nil {
		t.Fatalf("GetOutbox(%s, %d) failed: %v", handle, page, err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		t.Fatalf("Outbox should be valid JSON: %v", err)
	}
	return data
}

func TestOutboxIndex(t *testing.T) {
	users, posts, _ := seedOutbox(45)

	data := getOutboxJSON(t, users, posts, "alice", 0)

	outboxURL := "https://" + testDomain + "/ap/users/alice/outbox"

	if data["type"] != "OrderedCollection" {
		t.Errorf("Expected OrderedCollection, got %v", data["type"])
	}
	if data["id"] != outboxURL {
		t.Errorf("Expected id %s, got %v", outboxURL, data["id"])
	}
	if data["totalItems"] != float64(45) {
		t.Errorf("Expected totalItems 45, got %v", data["totalItems"])
	}
	if data["first"] != outboxURL+"?page=1" {
		t.Errorf("Expected first ?page=1, got %v", data["first"])
	}
	if data["last"] != outboxURL+"?page=3" {
		t.Errorf("Expected last ?page=3, got %v", data["last"])
	}
}

func TestOutboxIndexEmpty(t *testing.T) {
	users, posts, _ := seedOutbox(0)

	data := getOutboxJSON(t, users, posts, "alice", 0)

	outboxURL := "https://" + testDomain + "/ap/users/alice/outbox"

	if data["totalItems"] != float64(0) {
		t.Errorf("Expected totalItems 0, got %v", data["totalItems"])
	}
	// Even an empty outbox points last at page 1
	if data["last"] != outboxURL+"?page=1" {
		t.Errorf("Expected last ?page=1, got %v", data["last"])
	}
}

func TestOutboxPages(t *testing.T) {
	users, posts, _ := seedOutbox(45)

	outboxURL := "https://" + testDomain + "/ap/users/alice/outbox"

	tests := []struct {
		page      int
		wantItems int
		wantNext  string
		wantPrev  string
	}{
		{1, 20, outboxURL + "?page=2", ""},
		{2, 20, outboxURL + "?page=3", outboxURL + "?page=1"},
		{3, 5, "", outboxURL + "?page=2"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			data := getOutboxJSON(t, users, posts, "alice", tt.page)

			if data["type"] != "OrderedCollectionPage" {
				t.Errorf("Expected OrderedCollectionPage, got %v", data["type"])
			}
			if data["partOf"] != outboxURL {
				t.Errorf("Expected partOf %s, got %v", outboxURL, data["partOf"])
			}

			items, ok := data["orderedItems"].([]interface{})
			if !ok {
				t.Fatalf("Expected orderedItems array, got %v", data["orderedItems"])
			}
			if len(items) != tt.wantItems {
				t.Errorf("Expected %d items, got %d", tt.wantItems, len(items))
			}

			next, _ := data["next"].(string)
			if next != tt.wantNext {
				t.Errorf("Expected next %q, got %q", tt.wantNext, next)
			}

			prev, _ := data["prev"].(string)
			if prev != tt.wantPrev {
				t.Errorf("Expected prev %q, got %q", tt.wantPrev, prev)
			}
		})
	}
}

func TestOutboxPageBeyondEnd(t *testing.T) {
	users, posts, _ := seedOutbox(5)

	data := getOutboxJSON(t, users, posts, "alice", 7)

	items, ok := data["orderedItems"].([]interface{})
	if !ok || len(items) != 0 {
		t.Errorf("Expected empty orderedItems past the end, got %v", data["orderedItems"])
	}
	if _, hasNext := data["next"]; hasNext {
		t.Error("Expected no next link past the end")
	}
	if data["prev"] != "https://"+testDomain+"/ap/users/alice/outbox?page=6" {
		t.Errorf("Expected prev ?page=6, got %v", data["prev"])
	}
}

func TestOutboxFullLastPageStillLinksNext(t *testing.T) {
	// 40 posts: page 2 comes back full, so it cannot know it is the last
	users, posts, _ := seedOutbox(40)

	data := getOutboxJSON(t, users, posts, "alice", 2)

	items := data["orderedItems"].([]interface{})
	if len(items) != 20 {
		t.Fatalf("Expected 20 items, got %d", len(items))
	}
	if data["next"] != "https://"+testDomain+"/ap/users/alice/outbox?page=3" {
		t.Errorf("Expected next ?page=3 for a full page, got %v", data["next"])
	}
}

func TestOutboxItemsAreCreateActivities(t *testing.T) {
	users, posts, _ := seedOutbox(2)

	data := getOutboxJSON(t, users, posts, "alice", 1)

	items := data["orderedItems"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	activity, ok := items[0].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected activity object, got %v", items[0])
	}

	if activity["type"] != "Create" {
		t.Errorf("Expected Create activity, got %v", activity["type"])
	}
	if activity["actor"] != "https://"+testDomain+"/ap/users/alice" {
		t.Errorf("Unexpected actor: %v", activity["actor"])
	}

	object, ok := activity["object"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected wrapped Note, got %v", activity["object"])
	}
	if object["type"] != "Note" {
		t.Errorf("Expected Note object, got %v", object["type"])
	}

	noteId, _ := object["id"].(string)
	if activity["id"] != noteId+"/activity" {
		t.Errorf("Expected activity id %s/activity, got %v", noteId, activity["id"])
	}

	// Newest post first
	if object["content"] != "<p>post number 1</p>" {
		t.Errorf("Expected newest post first, got %v", object["content"])
	}
}

func TestOutboxExcludesDeletedPosts(t *testing.T) {
	users := newFakeUserStore()
	user := newTestUser("alice", false)
	users.add(user)

	posts := newFakePostStore(users)
	now := time.Now()
	posts.add(newTestPost(user.Id, "", "still here", now))
	deleted := newTestPost(user.Id, "", "removed", now.Add(time.Minute))
	deletedAt := now.Add(2 * time.Minute)
	deleted.DeletedAt = &deletedAt
	posts.add(deleted)

	index := getOutboxJSON(t, users, posts, "alice", 0)
	if index["totalItems"] != float64(1) {
		t.Errorf("Expected totalItems 1, got %v", index["totalItems"])
	}

	page := getOutboxJSON(t, users, posts, "alice", 1)
	items := page["orderedItems"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	object := items[0].(map[string]interface{})["object"].(map[string]interface{})
	if object["content"] != "<p>still here</p>" {
		t.Errorf("Deleted post leaked into outbox: %v", object["content"])
	}
}

func TestOutboxProtectedUser(t *testing.T) {
	users := newFakeUserStore()
	user := newTestUser("private", true)
	users.add(user)
	posts := newFakePostStore(users)
	posts.add(newTestPost(user.Id, "", "hidden", time.Now()))

	for _, page := range []int{0, 1} {
		_, err := GetOutbox(users, posts, "private", page, newTestConf())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound for protected user page %d, got %v", page, err)
		}
	}
}

func TestOutboxUnknownUser(t *testing.T) {
	users := newFakeUserStore()
	posts := newFakePostStore(users)

	_, err := GetOutbox(users, posts, "ghost", 0, newTestConf())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
