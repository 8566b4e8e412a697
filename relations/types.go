package relations

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID identifies every document and relation owner
type ID = primitive.ObjectID

// CV is a published curriculum vitae
type CV struct {
	ID        ID        `bson:"_id" json:"id"`
	AuthorID  ID        `bson:"author_id" json:"authorId"`
	Title     string    `bson:"title" json:"title"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Comment is a comment on a CV, or a reply when ParentID is set
type Comment struct {
	ID        ID        `bson:"_id" json:"id"`
	CVID      ID        `bson:"cv_id" json:"cvId"`
	ParentID  ID        `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	AuthorID  ID        `bson:"author_id" json:"authorId"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// IsReply reports whether the comment answers another comment
func (c Comment) IsReply() bool {
	return !c.ParentID.IsZero()
}

// Like records a user liking a CV
type Like struct {
	ID        ID        `bson:"_id" json:"id"`
	CVID      ID        `bson:"cv_id" json:"cvId"`
	UserID    ID        `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Share records a user sharing a CV
type Share struct {
	ID        ID        `bson:"_id" json:"id"`
	CVID      ID        `bson:"cv_id" json:"cvId"`
	UserID    ID        `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Bookmark records a user saving a CV
type Bookmark struct {
	ID        ID        `bson:"_id" json:"id"`
	CVID      ID        `bson:"cv_id" json:"cvId"`
	UserID    ID        `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// User is a member; friends are users too
type User struct {
	ID   ID     `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
