// Package memory is an in-memory implementation of the store interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
package memory

import (
	"sort"
	"sync"
	"time"

	"instaclone/backend/internal/models"
	"instaclone/backend/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	nextID uint
	last   time.Time

	users    map[uint]models.User
	profiles map[uint]models.UserProfile
	links    map[uint]models.UserLink
	requests map[uint]models.FriendRequest
	friends  map[uint]models.Friend
	posts    map[uint]models.Post
	likes    map[uint]models.PostLike
	comments map[uint]models.PostComment
	apps     map[uint]models.Application
	tokens   map[uint]models.AccessToken
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:   1,
		users:    make(map[uint]models.User),
		profiles: make(map[uint]models.UserProfile),
		links:    make(map[uint]models.UserLink),
		requests: make(map[uint]models.FriendRequest),
		friends:  make(map[uint]models.Friend),
		posts:    make(map[uint]models.Post),
		likes:    make(map[uint]models.PostLike),
		comments: make(map[uint]models.PostComment),
		apps:     make(map[uint]models.Application),
		tokens:   make(map[uint]models.AccessToken),
	}
}

func (s *Store) nextIDLocked() uint {
	id := s.nextID
	s.nextID++
	return id
}

// nowLocked returns a strictly increasing timestamp so recency ordering is deterministic.
func (s *Store) nowLocked() time.Time {
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func sortedIDs[T any](rows map[uint]T) []uint {
	ids := make([]uint, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func newestFirst(a, b time.Time, idA, idB uint) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}

func pageOf[T any](rows []T, page, limit int) []T {
	offset := store.Offset(page, limit)
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// userLocked returns a copy of the user with its profile loaded.
func (s *Store) userLocked(id uint) models.User {
	user := s.users[id]
	user.Profile = s.profileLocked(id)
	return user
}

func (s *Store) profileLocked(userID uint) *models.UserProfile {
	for _, profile := range s.profiles {
		if profile.UserID == userID {
			p := profile
			return &p
		}
	}
	return nil
}
