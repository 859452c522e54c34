package post

import "time"

// Post statuses. Posts are visible in listings regardless of status;
// only the author may mutate them.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is the persistent blog post model. The author reference is set at
// creation from the authenticated caller and never reassigned.
type Post struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Excerpt   string    `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	AuthorID  string    `bson:"author" json:"authorId"`
	Author    *Author   `bson:"-" json:"author,omitempty"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Author carries the resolved display fields of the owning account
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ValidStatus reports whether s is one of the two legal status values
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished
}
