// Package relations defines the paginated relations of the CV domain.
//
// Each relation is owned by one ID (a user, a CV or a comment) and is ordered by the
// document ID, which is the creation order. Cursors are the 24-character hex form of
// the node ID.
package relations

import (
	"fmt"

	"github.com/hadi77ir/go-relay/paginator"
	"github.com/hadi77ir/go-relay/paginators/memory"
	"github.com/hadi77ir/go-relay/paginators/wrapper"
	"github.com/hadi77ir/go-relay/relay"
)

// Relation names, used for logging, tracing and error messages
const (
	NameCVsByAuthor         = "cvs_by_author"
	NameCommentsByCV        = "comments_by_cv"
	NameRepliesByComment    = "replies_by_comment"
	NameLikesByCV           = "likes_by_cv"
	NameSharesByCV          = "shares_by_cv"
	NameBookmarksByCV       = "bookmarks_by_cv"
	NameBookmarkedCVsByUser = "bookmarked_cvs_by_user"
	NameSharedCVsByUser     = "shared_cvs_by_user"
	NameFriendsByUser       = "friends_by_user"
	NameSuggestedCVs        = "suggested_cvs"
)

// Fetchers supplies the ordered sequence of every relation kind
type Fetchers struct {
	CVsByAuthor         memory.DataSourceFunc[ID, CV]
	CommentsByCV        memory.DataSourceFunc[ID, Comment]
	RepliesByComment    memory.DataSourceFunc[ID, Comment]
	LikesByCV           memory.DataSourceFunc[ID, Like]
	SharesByCV          memory.DataSourceFunc[ID, Share]
	BookmarksByCV       memory.DataSourceFunc[ID, Bookmark]
	BookmarkedCVsByUser memory.DataSourceFunc[ID, CV]
	SharedCVsByUser     memory.DataSourceFunc[ID, CV]
	FriendsByUser       memory.DataSourceFunc[ID, User]
	SuggestedCVs        memory.DataSourceFunc[ID, CV]
}

// Relations holds one paginator per relation kind
type Relations struct {
	CVsByAuthor         paginator.Paginator[ID, CV]
	CommentsByCV        paginator.Paginator[ID, Comment]
	RepliesByComment    paginator.Paginator[ID, Comment]
	LikesByCV           paginator.Paginator[ID, Like]
	SharesByCV          paginator.Paginator[ID, Share]
	BookmarksByCV       paginator.Paginator[ID, Bookmark]
	BookmarkedCVsByUser paginator.Paginator[ID, CV]
	SharedCVsByUser     paginator.Paginator[ID, CV]
	FriendsByUser       paginator.Paginator[ID, User]
	SuggestedCVs        paginator.Paginator[ID, CV]
}

// New builds every relation from f.
// Every fetcher is required. When authorizers are given, each relation is gated by them.
func New(f Fetchers, opts *memory.Options, authorizers ...wrapper.Authorizer[ID]) (*Relations, error) {
	b := builder{opts: opts, authorizers: authorizers}

	r := &Relations{
		CVsByAuthor:         build(&b, NameCVsByAuthor, f.CVsByAuthor, cvKey),
		CommentsByCV:        build(&b, NameCommentsByCV, f.CommentsByCV, commentKey),
		RepliesByComment:    build(&b, NameRepliesByComment, f.RepliesByComment, commentKey),
		LikesByCV:           build(&b, NameLikesByCV, f.LikesByCV, func(l Like) ID { return l.ID }),
		SharesByCV:          build(&b, NameSharesByCV, f.SharesByCV, func(s Share) ID { return s.ID }),
		BookmarksByCV:       build(&b, NameBookmarksByCV, f.BookmarksByCV, func(bm Bookmark) ID { return bm.ID }),
		BookmarkedCVsByUser: build(&b, NameBookmarkedCVsByUser, f.BookmarkedCVsByUser, cvKey),
		SharedCVsByUser:     build(&b, NameSharedCVsByUser, f.SharedCVsByUser, cvKey),
		FriendsByUser:       build(&b, NameFriendsByUser, f.FriendsByUser, func(u User) ID { return u.ID }),
		SuggestedCVs:        build(&b, NameSuggestedCVs, f.SuggestedCVs, cvKey),
	}
	if len(b.missing) > 0 {
		return nil, fmt.Errorf("relations: no data source for %v", b.missing)
	}
	return r, nil
}

func cvKey(cv CV) ID {
	return cv.ID
}

func commentKey(c Comment) ID {
	return c.ID
}

type builder struct {
	opts        *memory.Options
	authorizers []wrapper.Authorizer[ID]
	missing     []string
}

func build[T any](b *builder, name string, src memory.DataSourceFunc[ID, T], key relay.KeyFunc[T, ID]) paginator.Paginator[ID, T] {
	if src == nil {
		b.missing = append(b.missing, name)
		return nil
	}
	var p paginator.Paginator[ID, T] = memory.NewRelation(name, src, key, relay.ObjectIDCodec{}, b.opts)
	if len(b.authorizers) > 0 {
		p = wrapper.NewGate(p, b.authorizers...)
	}
	return p
}
