package recordstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Client used by tests and local development. It
// enforces the same collection registry as the Postgres client.
type Memory struct {
	mu     sync.Mutex
	rows   map[string][]Record
	nextID map[string]int64

	// forced, when set, is returned by the next operation and cleared.
	forced error
}

func NewMemory() *Memory {
	return &Memory{
		rows:   make(map[string][]Record),
		nextID: make(map[string]int64),
	}
}

// FailNext makes the next store operation fail with err.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced = err
}

// Seed inserts rows directly, bypassing field checks on server-assigned ids.
func (m *Memory) Seed(collection string, recs ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		r := rec.Clone()
		if _, ok := r["id"]; !ok {
			m.nextID[collection]++
			r["id"] = m.nextID[collection]
		} else if id, ok := r["id"].(int64); ok && id > m.nextID[collection] {
			m.nextID[collection] = id
		}
		m.rows[collection] = append(m.rows[collection], r)
	}
}

func (m *Memory) ListAll(ctx context.Context, collection string, order ...Order) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeForced(); err != nil {
		return nil, err
	}
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(m.rows[collection]))
	for _, r := range m.rows[collection] {
		out = append(out, r.Clone())
	}

	if len(order) > 0 {
		ord := order[0]
		if !spec.hasColumn(ord.Field) {
			return nil, newError(KindInvalid, "unknown order field %q for %s", ord.Field, collection)
		}
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(out[i][ord.Field], out[j][ord.Field]) < 0
			if ord.Descending {
				return !less
			}
			return less
		})
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeForced(); err != nil {
		return nil, err
	}
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}
	if err := spec.checkFields(rec); err != nil {
		return nil, err
	}

	m.nextID[collection]++
	row := make(Record, len(spec.columns)+1)
	row[spec.idColumn] = m.nextID[collection]
	for _, c := range spec.columns {
		if v, ok := rec[c]; ok {
			row[c] = v
		}
	}
	m.rows[collection] = append(m.rows[collection], row)
	return row.Clone(), nil
}

func (m *Memory) Update(ctx context.Context, collection string, id any, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeForced(); err != nil {
		return nil, err
	}
	spec, err := lookup(collection)
	if err != nil {
		return nil, err
	}
	if err := spec.checkFields(rec); err != nil {
		return nil, err
	}

	for i, row := range m.rows[collection] {
		if !idEqual(row[spec.idColumn], id) {
			continue
		}
		// Full-row replace: absent fields are cleared.
		next := Record{spec.idColumn: row[spec.idColumn]}
		for _, c := range spec.columns {
			if v, ok := rec[c]; ok {
				next[c] = v
			}
		}
		m.rows[collection][i] = next
		return next.Clone(), nil
	}
	return nil, newError(KindNotFound, "%s: no row with id %v", collection, id)
}

func (m *Memory) DeleteByID(ctx context.Context, collection string, id any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeForced(); err != nil {
		return err
	}
	spec, err := lookup(collection)
	if err != nil {
		return err
	}

	for i, row := range m.rows[collection] {
		if idEqual(row[spec.idColumn], id) {
			m.rows[collection] = append(m.rows[collection][:i], m.rows[collection][i+1:]...)
			return nil
		}
	}
	return newError(KindNotFound, "%s: no row with id %v", collection, id)
}

func (m *Memory) takeForced() error {
	if m.forced != nil {
		err := m.forced
		m.forced = nil
		return err
	}
	return nil
}

func idEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
