package web

import (
	"sort"
	"time"

	"github.com/folionet/folio/domain"
	"github.com/folionet/folio/util"
	"github.com/google/uuid"
)

// In-memory stands-ins for the platform stores, honoring the same contracts:
// absent rows are (nil, nil) and soft-deleted posts never come back.

type fakeUserStore struct {
	users map[string]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User)}
}

func (s *fakeUserStore) add(user domain.User) {
	s.users[user.Handle] = user
}

func (s *fakeUserStore) FindByHandle(handle string) (*domain.User, error) {
	user, ok := s.users[handle]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

type fakePostStore struct {
	posts []domain.Post
	users *fakeUserStore
}

func newFakePostStore(users *fakeUserStore) *fakePostStore {
	return &fakePostStore{users: users}
}

func (s *fakePostStore) add(post domain.Post) {
	s.posts = append(s.posts, post)
}

func (s *fakePostStore) visibleByAuthor(authorId uuid.UUID) []domain.Post {
	var visible []domain.Post
	for _, post := range s.posts {
		if post.AuthorId == authorId && post.DeletedAt == nil {
			visible = append(visible, post)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}

func (s *fakePostStore) CountByAuthor(authorId uuid.UUID) (int, error) {
	return len(s.visibleByAuthor(authorId)), nil
}

func (s *fakePostStore) FindByAuthor(authorId uuid.UUID, limit int, offset int) ([]domain.Post, error) {
	visible := s.visibleByAuthor(authorId)
	if offset >= len(visible) {
		return nil, nil
	}
	visible = visible[offset:]
	if len(visible) > limit {
		visible = visible[:limit]
	}
	return visible, nil
}

func (s *fakePostStore) FindById(id uuid.UUID) (*domain.Post, error) {
	for _, post := range s.posts {
		if post.Id != id || post.DeletedAt != nil {
			continue
		}
		for _, user := range s.users.users {
			if user.Id == post.AuthorId {
				post.AuthorHandle = user.Handle
				post.AuthorProtected = user.IsProtected
				break
			}
		}
		return &post, nil
	}
	return nil, nil
}

const testDomain = "books.example.com"

func newTestConf() *util.AppConfig {
	conf := &util.AppConfig{}
	conf.Conf.PublicUrl = "https://" + testDomain
	return conf
}

func newTestUser(handle string, protected bool) domain.User {
	return domain.User{
		Id:          uuid.New(),
		Handle:      handle,
		DisplayName: "Reader " + handle,
		Bio:         "reads a lot",
		AvatarKey:   "avatars/" + handle + ".png",
		IsProtected: protected,
		CreatedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestPost(authorId uuid.UUID, title, body string, createdAt time.Time) domain.Post {
	return domain.Post{
		Id:        uuid.New(),
		Title:     title,
		Body:      body,
		AuthorId:  authorId,
		CreatedAt: createdAt,
	}
}
