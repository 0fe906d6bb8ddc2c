package recordstore

import "context"

// Order names a column to sort a listing by.
type Order struct {
	Field      string
	Descending bool
}

// Client is a stateless façade over named collections of rows. It holds no
// state of its own; every call is an independent round trip.
type Client interface {
	// ListAll returns every row of the collection, optionally ordered.
	ListAll(ctx context.Context, collection string, order ...Order) ([]Record, error)

	// Insert creates a row from a partial record and returns it with
	// server-assigned fields filled in.
	Insert(ctx context.Context, collection string, rec Record) (Record, error)

	// Update replaces all writable fields of the row matching id. Fields
	// absent from rec are cleared, not kept.
	Update(ctx context.Context, collection string, id any, rec Record) (Record, error)

	// DeleteByID removes the row matching id. Deleting an unknown id is a
	// not-found error, not a no-op.
	DeleteByID(ctx context.Context, collection string, id any) error
}

// Collection names known to the store.
const (
	CollectionProjects      = "projects"
	CollectionAwards        = "awards"
	CollectionProjectImages = "project_images"
	CollectionUsers         = "users"
)
