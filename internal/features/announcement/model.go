package announcement

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Announcement struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	Slug    string             `bson:"slug" json:"slug"`
	Body    string             `bson:"body" json:"body"`
	// Audience limits visibility to the listed roles; empty means everyone.
	Audience  []string            `bson:"audience,omitempty" json:"audience,omitempty"`
	Published bool                `bson:"published" json:"published"`
	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// VisibleTo reports whether any of the user's roles is in the audience.
func (a *Announcement) VisibleTo(roles []string) bool {
	if len(a.Audience) == 0 {
		return true
	}
	for _, want := range a.Audience {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}
