package relations

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/hadi77ir/go-relay/paginators/memory"
	"github.com/hadi77ir/go-relay/paginators/wrapper"
	"github.com/hadi77ir/go-relay/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// idAt returns a fixed id whose timestamp is minute minutes after baseTime
func idAt(minute int) ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(baseTime.Add(time.Duration(minute)*time.Minute).Unix()))
	return id
}

type fixture struct {
	store               *Store
	alice, bob, carol   User
	cv1, cv2, cv3, cv4  CV
	rootComment, reply1 Comment
}

func setupStore(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: NewStore()}

	f.alice = User{ID: idAt(0), Name: "alice"}
	f.bob = User{ID: idAt(1), Name: "bob"}
	f.carol = User{ID: idAt(2), Name: "carol"}
	for _, u := range []User{f.alice, f.bob, f.carol} {
		f.store.AddUser(u)
	}
	f.store.Befriend(f.alice.ID, f.bob.ID)
	f.store.Befriend(f.alice.ID, f.carol.ID)
	f.store.Befriend(f.bob.ID, f.alice.ID)

	f.cv1 = CV{ID: idAt(10), AuthorID: f.bob.ID, Title: "Backend engineer"}
	f.cv2 = CV{ID: idAt(11), AuthorID: f.bob.ID, Title: "SRE"}
	f.cv3 = CV{ID: idAt(12), AuthorID: f.carol.ID, Title: "Designer"}
	f.cv4 = CV{ID: idAt(13), AuthorID: f.alice.ID, Title: "Data scientist"}
	// Added out of order; the store keeps ID order.
	for _, cv := range []CV{f.cv3, f.cv1, f.cv4, f.cv2} {
		f.store.AddCV(cv)
	}

	f.rootComment = Comment{ID: idAt(20), CVID: f.cv1.ID, AuthorID: f.alice.ID, Body: "Impressive"}
	f.reply1 = Comment{ID: idAt(21), CVID: f.cv1.ID, ParentID: f.rootComment.ID, AuthorID: f.bob.ID, Body: "Thanks"}
	f.store.AddComment(f.rootComment)
	f.store.AddComment(f.reply1)
	f.store.AddComment(Comment{ID: idAt(22), CVID: f.cv1.ID, AuthorID: f.carol.ID, Body: "Hire him"})
	f.store.AddComment(Comment{ID: idAt(23), CVID: f.cv1.ID, ParentID: f.rootComment.ID, AuthorID: f.carol.ID, Body: "Agreed"})

	for i := 0; i < 5; i++ {
		f.store.AddLike(Like{ID: idAt(30 + i), CVID: f.cv1.ID, UserID: idAt(100 + i)})
	}
	f.store.AddShare(Share{ID: idAt(40), CVID: f.cv1.ID, UserID: f.alice.ID})
	f.store.AddShare(Share{ID: idAt(41), CVID: f.cv3.ID, UserID: f.alice.ID})
	f.store.AddBookmark(Bookmark{ID: idAt(50), CVID: f.cv2.ID, UserID: f.alice.ID})
	f.store.AddBookmark(Bookmark{ID: idAt(51), CVID: f.cv1.ID, UserID: f.carol.ID})

	return f
}

func setupRelations(t *testing.T, f *fixture, authorizers ...wrapper.Authorizer[ID]) *Relations {
	t.Helper()
	r, err := New(f.store.Fetchers(), memory.DefaultOptions(), authorizers...)
	require.NoError(t, err)
	return r
}

func TestRelations(t *testing.T) {
	f := setupStore(t)
	r := setupRelations(t, f)
	ctx := context.Background()

	t.Run("cvs by author", func(t *testing.T) {
		conn, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []CV{f.cv1, f.cv2}, conn.Nodes())
		assert.Equal(t, f.cv1.ID.Hex(), *conn.PageInfo.StartCursor)
		assert.False(t, conn.PageInfo.HasNextPage)
	})

	t.Run("comments exclude replies", func(t *testing.T) {
		conn, err := r.CommentsByCV.Paginate(ctx, f.cv1.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		require.Len(t, conn.Edges, 2)
		assert.Equal(t, f.rootComment.ID, conn.Edges[0].Node.ID)
		assert.Equal(t, "Hire him", conn.Edges[1].Node.Body)
	})

	t.Run("replies by comment", func(t *testing.T) {
		conn, err := r.RepliesByComment.Paginate(ctx, f.rootComment.ID, relay.Backward(1, ""))
		require.NoError(t, err)
		require.Len(t, conn.Edges, 1)
		assert.Equal(t, "Agreed", conn.Edges[0].Node.Body)
		assert.True(t, conn.PageInfo.HasPreviousPage)
		assert.False(t, conn.PageInfo.HasNextPage)
	})

	t.Run("replies of a reply are empty", func(t *testing.T) {
		conn, err := r.RepliesByComment.Paginate(ctx, f.reply1.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.True(t, conn.IsEmpty())
	})

	t.Run("likes page through", func(t *testing.T) {
		page1, err := r.LikesByCV.Paginate(ctx, f.cv1.ID, relay.Forward(2, ""))
		require.NoError(t, err)
		require.True(t, page1.PageInfo.HasNextPage)

		page2, err := r.LikesByCV.Paginate(ctx, f.cv1.ID, relay.Forward(2, *page1.PageInfo.EndCursor))
		require.NoError(t, err)
		require.Len(t, page2.Edges, 2)
		assert.Equal(t, idAt(32), page2.Edges[0].Node.ID)
		assert.True(t, page2.PageInfo.HasPreviousPage)
		assert.True(t, page2.PageInfo.HasNextPage)
	})

	t.Run("shares by cv", func(t *testing.T) {
		conn, err := r.SharesByCV.Paginate(ctx, f.cv3.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		require.Len(t, conn.Edges, 1)
		assert.Equal(t, f.alice.ID, conn.Edges[0].Node.UserID)
	})

	t.Run("bookmarks by cv", func(t *testing.T) {
		conn, err := r.BookmarksByCV.Paginate(ctx, f.cv1.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		require.Len(t, conn.Edges, 1)
		assert.Equal(t, f.carol.ID, conn.Edges[0].Node.UserID)
	})

	t.Run("bookmarked cvs by user", func(t *testing.T) {
		conn, err := r.BookmarkedCVsByUser.Paginate(ctx, f.alice.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []CV{f.cv2}, conn.Nodes())
	})

	t.Run("shared cvs by user", func(t *testing.T) {
		conn, err := r.SharedCVsByUser.Paginate(ctx, f.alice.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []CV{f.cv1, f.cv3}, conn.Nodes())
	})

	t.Run("friends are mutual and unique", func(t *testing.T) {
		conn, err := r.FriendsByUser.Paginate(ctx, f.alice.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []User{f.bob, f.carol}, conn.Nodes())

		conn, err = r.FriendsByUser.Paginate(ctx, f.bob.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []User{f.alice}, conn.Nodes())
	})

	t.Run("suggested cvs are newest first", func(t *testing.T) {
		// cv2 is bookmarked by alice, cv4 is her own
		conn, err := r.SuggestedCVs.Paginate(ctx, f.alice.ID, relay.Forward(10, ""))
		require.NoError(t, err)
		assert.Equal(t, []CV{f.cv3, f.cv1}, conn.Nodes())

		next, err := r.SuggestedCVs.Paginate(ctx, f.alice.ID, relay.Forward(10, f.cv3.ID.Hex()))
		require.NoError(t, err)
		assert.Equal(t, []CV{f.cv1}, next.Nodes())
		assert.True(t, next.PageInfo.HasPreviousPage)
	})

	t.Run("cursor of another relation kind", func(t *testing.T) {
		// A well-formed id that is not in the relation filters nothing.
		conn, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(10, f.cv3.ID.Hex()))
		require.NoError(t, err)
		assert.Len(t, conn.Edges, 2)
		assert.False(t, conn.PageInfo.HasPreviousPage)
	})

	t.Run("malformed cursor", func(t *testing.T) {
		_, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(10, "cursor"))
		assert.ErrorIs(t, err, relay.ErrInvalidCursor)
		assert.Equal(t, relay.CodeCursorDecode, relay.CodeOf(err))
	})
}

func TestRelations_LiveUpdates(t *testing.T) {
	f := setupStore(t)
	r := setupRelations(t, f)
	ctx := context.Background()

	page1, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(1, ""))
	require.NoError(t, err)
	require.Equal(t, []CV{f.cv1}, page1.Nodes())

	f.store.AddCV(CV{ID: idAt(60), AuthorID: f.bob.ID, Title: "Platform lead"})

	page2, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(5, *page1.PageInfo.EndCursor))
	require.NoError(t, err)
	require.Len(t, page2.Edges, 2)
	assert.Equal(t, "Platform lead", page2.Edges[1].Node.Title)

	// Once its cursor item is gone, after no longer filters anything.
	f.store.RemoveCV(f.cv1.ID)
	page3, err := r.CVsByAuthor.Paginate(ctx, f.bob.ID, relay.Forward(5, *page1.PageInfo.EndCursor))
	require.NoError(t, err)
	assert.Len(t, page3.Edges, 2)
	assert.False(t, page3.PageInfo.HasPreviousPage)
}

func TestRelations_Authorization(t *testing.T) {
	f := setupStore(t)
	ctx := context.Background()

	t.Run("owner allow list", func(t *testing.T) {
		r := setupRelations(t, f, wrapper.AllowOwners(f.alice.ID))

		_, err := r.FriendsByUser.Paginate(ctx, f.alice.ID, relay.Forward(1, ""))
		assert.NoError(t, err)

		_, err = r.FriendsByUser.Paginate(ctx, f.bob.ID, relay.Forward(1, ""))
		assert.ErrorIs(t, err, relay.ErrForbidden)
		assert.True(t, relay.IsClientError(err))
		assert.Equal(t, NameFriendsByUser, r.FriendsByUser.Name())
	})

	t.Run("authorizer failure", func(t *testing.T) {
		cause := errors.New("session store unavailable")
		r := setupRelations(t, f, func(context.Context, ID) (bool, error) { return false, cause })

		_, err := r.LikesByCV.Paginate(ctx, f.cv1.ID, relay.Forward(1, ""))
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, relay.ErrForbidden)
	})
}

func TestNew_MissingFetchers(t *testing.T) {
	fetchers := NewStore().Fetchers()
	fetchers.LikesByCV = nil
	fetchers.SuggestedCVs = nil

	_, err := New(fetchers, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), NameLikesByCV)
	assert.Contains(t, err.Error(), NameSuggestedCVs)
}

func TestRelations_Names(t *testing.T) {
	r := setupRelations(t, setupStore(t))

	assert.Equal(t, NameCVsByAuthor, r.CVsByAuthor.Name())
	assert.Equal(t, NameCommentsByCV, r.CommentsByCV.Name())
	assert.Equal(t, NameRepliesByComment, r.RepliesByComment.Name())
	assert.Equal(t, NameSuggestedCVs, r.SuggestedCVs.Name())
}
