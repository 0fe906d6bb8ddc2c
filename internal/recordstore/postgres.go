package recordstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// collectionSpec whitelists the table and writable columns behind a collection
// name. Identifiers never come from request input.
type collectionSpec struct {
	table    string
	idColumn string
	columns  []string
}

var collections = map[string]collectionSpec{
	CollectionProjects: {
		table:    "projects",
		idColumn: "id",
		columns: []string{
			"slug", "title", "category", "content",
			"grid_image", "main_image", "detail_image1", "detail_image2",
			"price", "date", "client", "features",
		},
	},
	CollectionAwards: {
		table:    "awards",
		idColumn: "id",
		columns:  []string{"project_id", "award_name", "year"},
	},
	CollectionProjectImages: {
		table:    "project_images",
		idColumn: "id",
		columns:  []string{"project_id", "image_url", "image_type"},
	},
	CollectionUsers: {
		table:    "users",
		idColumn: "id",
		columns:  []string{"email", "password_hash", "role"},
	},
}

// Postgres implements Client on a pgx connection pool.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ListAll(ctx context.Context, collection string, order ...Order) ([]Record, error) {
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("select %s from %s", spec.selectList(), spec.table)
	if len(order) > 0 {
		ord := order[0]
		if !spec.hasColumn(ord.Field) {
			return nil, newError(KindInvalid, "unknown order field %q for %s", ord.Field, collection)
		}
		dir := "asc"
		if ord.Descending {
			dir = "desc"
		}
		q += fmt.Sprintf(" order by %s %s", ord.Field, dir)
	}

	rows, err := p.db.Query(ctx, q)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]Record, 0, 16)
	fds := rows.FieldDescriptions()
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, mapError(err)
		}
		rec := make(Record, len(fds))
		for i, fd := range fds {
			rec[string(fd.Name)] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (p *Postgres) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}
	if err := spec.checkFields(rec); err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(rec))
	args := make([]any, 0, len(rec))
	placeholders := make([]string, 0, len(rec))
	for _, c := range spec.columns {
		v, ok := rec[c]
		if !ok {
			continue
		}
		cols = append(cols, c)
		args = append(args, v)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	var q string
	if len(cols) == 0 {
		q = fmt.Sprintf("insert into %s default values returning %s", spec.table, spec.selectList())
	} else {
		q = fmt.Sprintf("insert into %s (%s) values (%s) returning %s",
			spec.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), spec.selectList())
	}

	return p.queryOne(ctx, spec, q, args...)
}

func (p *Postgres) Update(ctx context.Context, collection string, id any, rec Record) (Record, error) {
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}
	if err := spec.checkFields(rec); err != nil {
		return nil, err
	}

	// Full-row replace: every writable column is set, absent fields go null.
	sets := make([]string, 0, len(spec.columns))
	args := make([]any, 0, len(spec.columns)+1)
	for _, c := range spec.columns {
		v, ok := rec[c]
		if !ok {
			v = nil
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	args = append(args, id)

	q := fmt.Sprintf("update %s set %s where %s = $%d returning %s",
		spec.table, strings.Join(sets, ", "), spec.idColumn, len(args), spec.selectList())

	return p.queryOne(ctx, spec, q, args...)
}

func (p *Postgres) DeleteByID(ctx context.Context, collection string, id any) error {
	spec, err := lookup(collection)
	if err != nil {
		return err
	}

	q := fmt.Sprintf("delete from %s where %s = $1", spec.table, spec.idColumn)
	tag, err := p.db.Exec(ctx, q, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return newError(KindNotFound, "%s: no row with id %v", collection, id)
	}
	return nil
}

func (p *Postgres) queryOne(ctx context.Context, spec collectionSpec, q string, args ...any) (Record, error) {
	rows, err := p.db.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapError(err)
		}
		return nil, newError(KindNotFound, "%s: no matching row", spec.table)
	}
	vals, err := rows.Values()
	if err != nil {
		return nil, mapError(err)
	}
	rec := make(Record, len(fds))
	for i, fd := range fds {
		rec[string(fd.Name)] = vals[i]
	}
	return rec, nil
}

func (s collectionSpec) selectList() string {
	return s.idColumn + ", " + strings.Join(s.columns, ", ")
}

func (s collectionSpec) hasColumn(name string) bool {
	if name == s.idColumn {
		return true
	}
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

func (s collectionSpec) checkFields(rec Record) error {
	for k := range rec {
		if k == s.idColumn {
			return newError(KindInvalid, "field %q is server-assigned", k)
		}
		if !s.hasColumn(k) {
			return newError(KindInvalid, "unknown field %q for %s", k, s.table)
		}
	}
	return nil
}

func lookup(collection string) (collectionSpec, error) {
	spec, ok := collections[collection]
	if !ok {
		return collectionSpec{}, newError(KindInvalid, "unknown collection %q", collection)
	}
	return spec, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return wrapError(KindNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return wrapError(KindConflict, err)
		case strings.HasPrefix(pgErr.Code, "23"),
			strings.HasPrefix(pgErr.Code, "22"),
			strings.HasPrefix(pgErr.Code, "42"):
			return wrapError(KindInvalid, err)
		}
	}

	return wrapError(KindTransient, err)
}
