package relations

import (
	"bytes"
	"context"
	"slices"
	"sync"
)

// Store is an in-memory document store serving every relation kind.
// It is safe for concurrent use; fetchers see writes made between calls.
type Store struct {
	mu        sync.RWMutex
	users     map[ID]User
	cvs       []CV
	comments  []Comment
	likes     []Like
	shares    []Share
	bookmarks []Bookmark
	friends   map[ID][]ID
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:   make(map[ID]User),
		friends: make(map[ID][]ID),
	}
}

func byID[T any](id func(T) ID) func(a, b T) int {
	return func(a, b T) int {
		ia, ib := id(a), id(b)
		return bytes.Compare(ia[:], ib[:])
	}
}

// insert adds item in ID order, replacing a stored item with the same ID
func insert[T any](items []T, item T, id func(T) ID) []T {
	i, found := slices.BinarySearchFunc(items, item, byID(id))
	if found {
		items[i] = item
		return items
	}
	return slices.Insert(items, i, item)
}

// AddUser stores a user
func (s *Store) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddCV stores a CV
func (s *Store) AddCV(cv CV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvs = insert(s.cvs, cv, cvKey)
}

// AddComment stores a comment or reply
func (s *Store) AddComment(c Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = insert(s.comments, c, commentKey)
}

// AddLike stores a like
func (s *Store) AddLike(l Like) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = insert(s.likes, l, func(l Like) ID { return l.ID })
}

// AddShare stores a share
func (s *Store) AddShare(sh Share) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares = insert(s.shares, sh, func(sh Share) ID { return sh.ID })
}

// AddBookmark stores a bookmark
func (s *Store) AddBookmark(b Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks = insert(s.bookmarks, b, func(bm Bookmark) ID { return bm.ID })
}

// Befriend records a mutual friendship
func (s *Store) Befriend(a, b ID) {
	if a == b {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.friends[a], b) {
		s.friends[a] = append(s.friends[a], b)
		s.friends[b] = append(s.friends[b], a)
	}
}

// RemoveCV deletes a CV; likes, shares and bookmarks of it are kept
func (s *Store) RemoveCV(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvs = slices.DeleteFunc(s.cvs, func(cv CV) bool { return cv.ID == id })
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (s *Store) cvsReferenced(userID ID, refs func(userID ID) []ID) []CV {
	ids := refs(userID)
	return filter(s.cvs, func(cv CV) bool { return slices.Contains(ids, cv.ID) })
}

// Fetchers returns data sources reading from the store
func (s *Store) Fetchers() Fetchers {
	return Fetchers{
		CVsByAuthor: func(_ context.Context, authorID ID) ([]CV, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.cvs, func(cv CV) bool { return cv.AuthorID == authorID }), nil
		},
		CommentsByCV: func(_ context.Context, cvID ID) ([]Comment, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.comments, func(c Comment) bool { return c.CVID == cvID && !c.IsReply() }), nil
		},
		RepliesByComment: func(_ context.Context, commentID ID) ([]Comment, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.comments, func(c Comment) bool { return c.IsReply() && c.ParentID == commentID }), nil
		},
		LikesByCV: func(_ context.Context, cvID ID) ([]Like, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.likes, func(l Like) bool { return l.CVID == cvID }), nil
		},
		SharesByCV: func(_ context.Context, cvID ID) ([]Share, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.shares, func(sh Share) bool { return sh.CVID == cvID }), nil
		},
		BookmarksByCV: func(_ context.Context, cvID ID) ([]Bookmark, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return filter(s.bookmarks, func(b Bookmark) bool { return b.CVID == cvID }), nil
		},
		BookmarkedCVsByUser: func(_ context.Context, userID ID) ([]CV, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.cvsReferenced(userID, s.bookmarkedBy), nil
		},
		SharedCVsByUser: func(_ context.Context, userID ID) ([]CV, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.cvsReferenced(userID, s.sharedBy), nil
		},
		FriendsByUser: func(_ context.Context, userID ID) ([]User, error) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			friends := make([]User, 0, len(s.friends[userID]))
			for _, id := range s.friends[userID] {
				if u, ok := s.users[id]; ok {
					friends = append(friends, u)
				}
			}
			slices.SortFunc(friends, byID(func(u User) ID { return u.ID }))
			return friends, nil
		},
		SuggestedCVs: s.suggestedCVs,
	}
}

func (s *Store) bookmarkedBy(userID ID) []ID {
	var ids []ID
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			ids = append(ids, b.CVID)
		}
	}
	return ids
}

func (s *Store) sharedBy(userID ID) []ID {
	var ids []ID
	for _, sh := range s.shares {
		if sh.UserID == userID {
			ids = append(ids, sh.CVID)
		}
	}
	return ids
}

// suggestedCVs lists CVs written by the user's friends, newest first, skipping
// the ones the user already bookmarked
func (s *Store) suggestedCVs(_ context.Context, userID ID) ([]CV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friends := s.friends[userID]
	bookmarked := s.bookmarkedBy(userID)
	cvs := filter(s.cvs, func(cv CV) bool {
		return slices.Contains(friends, cv.AuthorID) && !slices.Contains(bookmarked, cv.ID)
	})
	slices.Reverse(cvs)
	return cvs, nil
}
