package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/scoring"
)

// UserPath returns the path of a user's document.
func UserPath(uid string) string { return "users/" + uid }

// MapsPath returns the path of a user's focus-maps collection.
func MapsPath(uid string) string { return UserPath(uid) + "/focus-maps" }

// MapPath returns the path of one saved map.
func MapPath(uid, id string) string { return MapsPath(uid) + "/" + id }

// userDoc is the JSON body of users/{uid}. Fields are merged on write.
type userDoc struct {
	LatestFocusAssessment *scoring.Report `json:"latestFocusAssessment,omitempty"`
	Settings              *Settings       `json:"settings,omitempty"`
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// documentRepo implements DocumentRepo as JSON rows keyed by path.
type documentRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *documentRepo) LatestAssessment(ctx context.Context, uid string) (*scoring.Report, error) {
	doc, err := r.userDoc(ctx, r.db, uid)
	if err != nil {
		return nil, err
	}
	if doc.LatestFocusAssessment == nil {
		return nil, &StorageError{Op: "get", Path: UserPath(uid), Err: ErrNotFound}
	}
	return doc.LatestFocusAssessment, nil
}

func (r *documentRepo) SaveLatestAssessment(ctx context.Context, uid string, rep *scoring.Report) error {
	return r.mergeUserDoc(ctx, uid, func(d *userDoc) { d.LatestFocusAssessment = rep })
}

func (r *documentRepo) Settings(ctx context.Context, uid string) (Settings, error) {
	doc, err := r.userDoc(ctx, r.db, uid)
	if err != nil {
		return DefaultSettings(), err
	}
	if doc.Settings == nil {
		return DefaultSettings(), &StorageError{Op: "get", Path: UserPath(uid), Err: ErrNotFound}
	}
	return *doc.Settings, nil
}

func (r *documentRepo) SaveSettings(ctx context.Context, uid string, s Settings) error {
	return r.mergeUserDoc(ctx, uid, func(d *userDoc) { d.Settings = &s })
}

func (r *documentRepo) CreateMap(ctx context.Context, uid string, m *focusmap.Map) (string, error) {
	id := uuid.NewString()
	now := r.now()

	c := m.Clone()
	c.ID = ""
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := r.putJSON(ctx, r.db, MapPath(uid, id), MapsPath(uid), c, now); err != nil {
		return "", err
	}
	return id, nil
}

func (r *documentRepo) PutMap(ctx context.Context, uid, id string, m *focusmap.Map) error {
	now := r.now()

	c := m.Clone()
	c.ID = ""
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	return r.putJSON(ctx, r.db, MapPath(uid, id), MapsPath(uid), c, now)
}

func (r *documentRepo) GetMap(ctx context.Context, uid, id string) (*focusmap.Map, error) {
	path := MapPath(uid, id)
	data, err := r.get(ctx, r.db, path)
	if err != nil {
		return nil, err
	}
	var m focusmap.Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &StorageError{Op: "decode", Path: path, Err: err}
	}
	m.ID = id
	return &m, nil
}

func (r *documentRepo) ListMaps(ctx context.Context, uid string, limit int) ([]*focusmap.Map, error) {
	parent := MapsPath(uid)
	sel := builder.Select("path", "data").
		From(entsql.Table(documentsTable.Name)).
		Where(entsql.EQ("parent", parent)).
		OrderBy(entsql.Desc("updated_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "list", Path: parent, Err: err}
	}
	defer rows.Close()

	var out []*focusmap.Map
	for rows.Next() {
		var path, data string
		if err := rows.Scan(&path, &data); err != nil {
			return nil, &StorageError{Op: "list", Path: parent, Err: err}
		}
		var m focusmap.Map
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, &StorageError{Op: "decode", Path: path, Err: err}
		}
		m.ID = strings.TrimPrefix(path, parent+"/")
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Path: parent, Err: err}
	}
	return out, nil
}

func (r *documentRepo) DeleteMap(ctx context.Context, uid, id string) error {
	path := MapPath(uid, id)
	query, args := builder.Delete(documentsTable.Name).
		Where(entsql.EQ("path", path)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &StorageError{Op: "delete", Path: path, Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &StorageError{Op: "delete", Path: path, Err: ErrNotFound}
	}
	return nil
}

// userDoc loads users/{uid}. A missing row is ErrNotFound.
func (r *documentRepo) userDoc(ctx context.Context, q querier, uid string) (*userDoc, error) {
	path := UserPath(uid)
	data, err := r.get(ctx, q, path)
	if err != nil {
		return nil, err
	}
	var d userDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &StorageError{Op: "decode", Path: path, Err: err}
	}
	return &d, nil
}

// mergeUserDoc applies set to the user document inside a transaction,
// creating the document if needed.
func (r *documentRepo) mergeUserDoc(ctx context.Context, uid string, set func(*userDoc)) error {
	path := UserPath(uid)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "merge", Path: path, Err: err}
	}
	defer tx.Rollback()

	doc, err := r.userDoc(ctx, tx, uid)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		doc = &userDoc{}
	}
	set(doc)

	if err := r.putJSON(ctx, tx, path, "users", doc, r.now()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "merge", Path: path, Err: err}
	}
	return nil
}

func (r *documentRepo) get(ctx context.Context, q querier, path string) ([]byte, error) {
	query, args := builder.Select("data").
		From(entsql.Table(documentsTable.Name)).
		Where(entsql.EQ("path", path)).
		Query()

	var data string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StorageError{Op: "get", Path: path, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "get", Path: path, Err: err}
	}
	return []byte(data), nil
}

// putJSON upserts the document at path. created_at is kept on update.
func (r *documentRepo) putJSON(ctx context.Context, q querier, path, parent string, v any, now time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}

	ts := toNanos(now)
	query, args := builder.Insert(documentsTable.Name).
		Columns("path", "parent", "data", "created_at", "updated_at").
		Values(path, parent, string(data), ts, ts).
		OnConflict(
			entsql.ConflictColumns("path"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("data")
				u.SetExcluded("updated_at")
			}),
		).
		Query()

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "put", Path: path, Err: fmt.Errorf("upsert: %w", err)}
	}
	return nil
}
