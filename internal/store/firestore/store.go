// Package firestore keeps user documents in Cloud Firestore using the
// same users/{uid} layout as the SQLite document table.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/store"
)

const (
	usersCollection = "users"
	mapsCollection  = "focus-maps"
)

// Store implements store.DocumentRepo.
type Store struct {
	client *firestore.Client
}

var _ store.DocumentRepo = (*Store)(nil)

// New connects to the given project and database. An empty database
// selects "(default)".
func New(ctx context.Context, projectID, database string, opts ...option.ClientOption) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) userRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid)
}

func (s *Store) mapsCol(uid string) *firestore.CollectionRef {
	return s.userRef(uid).Collection(mapsCollection)
}

func (s *Store) userDoc(ctx context.Context, uid string) (*userDoc, error) {
	snap, err := s.userRef(uid).Get(ctx)
	if err != nil {
		return nil, wrap("get", store.UserPath(uid), err)
	}
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, wrap("decode", store.UserPath(uid), err)
	}
	return &d, nil
}

func (s *Store) LatestAssessment(ctx context.Context, uid string) (*scoring.Report, error) {
	d, err := s.userDoc(ctx, uid)
	if err != nil {
		return nil, err
	}
	if d.LatestFocusAssessment == nil {
		return nil, wrap("get", store.UserPath(uid), store.ErrNotFound)
	}
	return d.LatestFocusAssessment.report(), nil
}

func (s *Store) SaveLatestAssessment(ctx context.Context, uid string, r *scoring.Report) error {
	_, err := s.userRef(uid).Set(ctx, map[string]any{
		"latestFocusAssessment": toReportDoc(r),
	}, firestore.MergeAll)
	return wrap("merge", store.UserPath(uid), err)
}

func (s *Store) Settings(ctx context.Context, uid string) (store.Settings, error) {
	d, err := s.userDoc(ctx, uid)
	if err != nil {
		return store.DefaultSettings(), err
	}
	if d.Settings == nil {
		return store.DefaultSettings(), wrap("get", store.UserPath(uid), store.ErrNotFound)
	}
	return *d.Settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, uid string, st store.Settings) error {
	_, err := s.userRef(uid).Set(ctx, map[string]any{"settings": st}, firestore.MergeAll)
	return wrap("merge", store.UserPath(uid), err)
}

func (s *Store) CreateMap(ctx context.Context, uid string, m *focusmap.Map) (string, error) {
	ref, _, err := s.mapsCol(uid).Add(ctx, toMapDoc(m).fields("createdAt", "updatedAt"))
	if err != nil {
		return "", wrap("add", store.MapsPath(uid), err)
	}
	return ref.ID, nil
}

func (s *Store) PutMap(ctx context.Context, uid, id string, m *focusmap.Map) error {
	_, err := s.mapsCol(uid).Doc(id).Set(ctx, toMapDoc(m).fields("updatedAt"))
	return wrap("set", store.MapPath(uid, id), err)
}

func (s *Store) GetMap(ctx context.Context, uid, id string) (*focusmap.Map, error) {
	snap, err := s.mapsCol(uid).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrap("get", store.MapPath(uid, id), err)
	}
	var d mapDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, wrap("decode", store.MapPath(uid, id), err)
	}
	return d.focusMap(id), nil
}

// ListMaps returns maps newest first. Web-written maps keep updatedAt
// as a string, which Firestore orders apart from timestamps, so the
// collection is sorted here and limit is applied afterwards.
func (s *Store) ListMaps(ctx context.Context, uid string, limit int) ([]*focusmap.Map, error) {
	iter := s.mapsCol(uid).Documents(ctx)
	defer iter.Stop()

	var out []*focusmap.Map
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, wrap("list", store.MapsPath(uid), err)
		}
		var d mapDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, wrap("decode", store.MapPath(uid, snap.Ref.ID), err)
		}
		out = append(out, d.focusMap(snap.Ref.ID))
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(maps []*focusmap.Map) {
	slices.SortStableFunc(maps, func(a, b *focusmap.Map) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// DeleteMap fails with ErrNotFound when the map does not exist.
func (s *Store) DeleteMap(ctx context.Context, uid, id string) error {
	_, err := s.mapsCol(uid).Doc(id).Delete(ctx, firestore.Exists)
	return wrap("delete", store.MapPath(uid, id), err)
}

// wrap converts a Firestore error into a *store.StorageError, mapping
// NotFound to store.ErrNotFound. A nil err stays nil.
func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		err = store.ErrNotFound
	}
	return &store.StorageError{Op: op, Path: path, Err: err}
}
