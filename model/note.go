package model

import "time"

const (
	NoteStatusActive   = "active"
	NoteStatusArchived = "archived"
	NoteStatusDeleted  = "deleted"
)

// Note is owned by exactly one user. Images holds the ordered public blob
// references; every reference must resolve to a file in the upload store
// except transiently during a failed write, which the service reconciles
// before the request completes.
type Note struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Title      string    `bson:"title" json:"title"`
	Content    string    `bson:"content,omitempty" json:"content,omitempty"`
	Images     []string  `bson:"images" json:"images"`
	CreatedBy  string    `bson:"created_by" json:"created_by"`
	ModifiedBy string    `bson:"modified_by" json:"modified_by"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
