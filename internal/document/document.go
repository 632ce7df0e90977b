package document

import (
	"time"
)

// Meta is the part of every persisted document the repository owns. The
// partition key always equals the id: documents are self-partitioned.
type Meta struct {
	ID                string    `json:"id" bson:"_id"`
	PartitionKey      string    `json:"-" bson:"pk"`
	CreationTimestamp time.Time `json:"creationTimestamp" bson:"creationTimestamp"`
}

// DocMeta lets any struct embedding Meta satisfy Entity.
func (m *Meta) DocMeta() *Meta { return m }

// Key returns the (id, partition key) pair addressing the document.
func (m Meta) Key() Key { return Key{ID: m.ID, PartitionKey: m.PartitionKey} }

// Entity is a document shape managed by a Repository.
type Entity interface {
	DocMeta() *Meta
}

// Key addresses one document in a partitioned container. Every point
// operation presents both values.
type Key struct {
	ID           string
	PartitionKey string
}

// KeyFor builds the key of a self-partitioned document.
func KeyFor(id string) Key { return Key{ID: id, PartitionKey: id} }

// MaxPageLimit caps Page.Limit.
const MaxPageLimit = 1000

// Page selects a window of an ordered scan. The zero value is an unbounded scan.
type Page struct {
	Limit  int
	Offset int
}

// Unbounded reports whether the page covers the whole container.
func (p Page) Unbounded() bool { return p.Limit <= 0 && p.Offset <= 0 }

// Normalize clamps negative values and caps the limit.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
