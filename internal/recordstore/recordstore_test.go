package recordstore

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	t.Run("assigns server id and keeps fields", func(t *testing.T) {
		rec, err := store.Insert(ctx, CollectionProjects, Record{
			"title":    "Sculpture Series",
			"category": "Sculpture",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec["id"])
		assert.Equal(t, "Sculpture Series", rec["title"])
		assert.Equal(t, "Sculpture", rec["category"])

		rows, err := store.ListAll(ctx, CollectionProjects)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("rejects unknown collection", func(t *testing.T) {
		_, err := store.Insert(ctx, "widgets", Record{"title": "x"})
		require.Error(t, err)
		assert.Equal(t, KindInvalid, KindOf(err))
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		_, err := store.Insert(ctx, CollectionProjects, Record{"colour": "red"})
		require.Error(t, err)
		assert.Equal(t, KindInvalid, KindOf(err))
	})

	t.Run("rejects caller-supplied id", func(t *testing.T) {
		_, err := store.Insert(ctx, CollectionProjects, Record{"id": int64(99)})
		require.Error(t, err)
		assert.Equal(t, KindInvalid, KindOf(err))
	})
}

func TestMemoryUpdateReplacesFullRow(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	rec, err := store.Insert(ctx, CollectionProjects, Record{
		"title":    "Sculpture Series",
		"category": "Sculpture",
		"client":   "Atelier North",
	})
	require.NoError(t, err)

	updated, err := store.Update(ctx, CollectionProjects, rec["id"], Record{
		"title": "Sculpture Series II",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sculpture Series II", updated["title"])

	// Full-row replace: fields absent from the update are cleared.
	assert.Nil(t, updated["category"])
	assert.Nil(t, updated["client"])

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := store.Update(ctx, CollectionProjects, int64(999), Record{"title": "x"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	rec, err := store.Insert(ctx, CollectionProjects, Record{"title": "Ephemera"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteByID(ctx, CollectionProjects, rec["id"]))

	rows, err := store.ListAll(ctx, CollectionProjects)
	require.NoError(t, err)
	assert.Empty(t, rows)

	t.Run("deleting twice reports not found", func(t *testing.T) {
		err := store.DeleteByID(ctx, CollectionProjects, rec["id"])
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestMemoryListOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	store.Seed(CollectionAwards,
		Record{"award_name": "Gold Lion", "year": int64(2021)},
		Record{"award_name": "Red Dot", "year": int64(2019)},
		Record{"award_name": "D&AD Pencil", "year": int64(2023)},
	)

	rows, err := store.ListAll(ctx, CollectionAwards, Order{Field: "year"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2019), rows[0]["year"])
	assert.Equal(t, int64(2023), rows[2]["year"])

	rows, err = store.ListAll(ctx, CollectionAwards, Order{Field: "year", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2023), rows[0]["year"])

	_, err = store.ListAll(ctx, CollectionAwards, Order{Field: "colour"})
	require.Error(t, err)
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestMemoryFailNext(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	store.Seed(CollectionProjects, Record{"title": "Kept"})

	store.FailNext(newError(KindTransient, "backend unreachable"))
	_, err := store.ListAll(ctx, CollectionProjects)
	require.Error(t, err)

	// The failure is one-shot; the store works again afterwards.
	rows, err := store.ListAll(ctx, CollectionProjects)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMapError(t *testing.T) {
	t.Run("no rows is not found", func(t *testing.T) {
		assert.Equal(t, KindNotFound, KindOf(mapError(pgx.ErrNoRows)))
	})

	t.Run("unique violation is conflict", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505"})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("constraint and syntax classes are invalid", func(t *testing.T) {
		assert.Equal(t, KindInvalid, KindOf(mapError(&pgconn.PgError{Code: "23503"})))
		assert.Equal(t, KindInvalid, KindOf(mapError(&pgconn.PgError{Code: "42703"})))
	})

	t.Run("anything else is transient", func(t *testing.T) {
		assert.Equal(t, KindTransient, KindOf(mapError(assert.AnError)))
	})
}

func TestErrorString(t *testing.T) {
	err := newError(KindConflict, "slug taken")
	assert.Equal(t, "conflict: slug taken", err.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
}
