// Package persistence reads and writes a user's assessment, settings
// and maps through the document store, with a device-local fallback
// for the latest assessment.
package persistence

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/localcache"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/store"
)

// Local is the device-local fallback store.
type Local interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

type Adapter struct {
	docs  store.DocumentRepo
	local Local
	log   *zap.Logger
}

// New returns an adapter over docs. local may be nil.
func New(docs store.DocumentRepo, local Local, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{docs: docs, local: local, log: log.Named("persistence")}
}

// Read returns the user's latest assessment or nil. Remote failures are
// logged and treated as absence. When only the local copy exists it is
// written back to the remote store.
func (a *Adapter) Read(ctx context.Context, uid string) *scoring.Report {
	rep, err := a.docs.LatestAssessment(ctx, uid)
	if err == nil {
		return rep
	}
	if !store.IsNotFound(err) {
		a.log.Warn("read latest assessment", zap.String("uid", uid), zap.Error(err))
	}

	rep = a.readLocal()
	if rep == nil {
		return nil
	}
	if err := a.docs.SaveLatestAssessment(ctx, uid, rep); err != nil {
		a.log.Warn("write back local assessment", zap.String("uid", uid), zap.Error(err))
	}
	return rep
}

// Write stores rep remotely and refreshes the local copy. Only the
// remote error is returned.
func (a *Adapter) Write(ctx context.Context, uid string, rep *scoring.Report) error {
	err := a.docs.SaveLatestAssessment(ctx, uid, rep)
	if err != nil {
		a.log.Error("write latest assessment", zap.String("uid", uid), zap.Error(err))
	}
	a.writeLocal(rep)
	return err
}

func (a *Adapter) readLocal() *scoring.Report {
	if a.local == nil {
		return nil
	}
	var rep scoring.Report
	ok, err := a.local.Get(localcache.KeyAssessment, &rep)
	if err != nil {
		a.log.Warn("read local assessment", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &rep
}

func (a *Adapter) writeLocal(rep *scoring.Report) {
	if a.local == nil {
		return
	}
	if err := a.local.Set(localcache.KeyAssessment, rep); err != nil {
		a.log.Warn("write local assessment", zap.Error(err))
	}
}

// SaveMap stores a new map and returns its ID.
func (a *Adapter) SaveMap(ctx context.Context, uid string, m *focusmap.Map) (string, error) {
	id, err := a.docs.CreateMap(ctx, uid, m)
	if err != nil {
		a.log.Error("save map", zap.String("uid", uid), zap.Error(err))
		return "", err
	}
	a.log.Info("map created", zap.String("uid", uid), zap.String("map", id))
	return id, nil
}

// UpdateMap overwrites an existing map. Last write wins.
func (a *Adapter) UpdateMap(ctx context.Context, uid, id string, m *focusmap.Map) error {
	if err := a.docs.PutMap(ctx, uid, id, m); err != nil {
		a.log.Error("update map", zap.String("uid", uid), zap.String("map", id), zap.Error(err))
		return err
	}
	return nil
}

func (a *Adapter) LoadMap(ctx context.Context, uid, id string) (*focusmap.Map, error) {
	return a.docs.GetMap(ctx, uid, id)
}

func (a *Adapter) ListMaps(ctx context.Context, uid string, limit int) ([]*focusmap.Map, error) {
	maps, err := a.docs.ListMaps(ctx, uid, limit)
	if err != nil {
		a.log.Warn("list maps", zap.String("uid", uid), zap.Error(err))
	}
	return maps, err
}

func (a *Adapter) DeleteMap(ctx context.Context, uid, id string) error {
	return a.docs.DeleteMap(ctx, uid, id)
}

// Settings returns the user's settings, or the defaults when none are
// stored or the read fails.
func (a *Adapter) Settings(ctx context.Context, uid string) store.Settings {
	s, err := a.docs.Settings(ctx, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.log.Warn("read settings", zap.String("uid", uid), zap.Error(err))
		}
		return store.DefaultSettings()
	}
	return s
}

func (a *Adapter) SaveSettings(ctx context.Context, uid string, s store.Settings) error {
	if err := a.docs.SaveSettings(ctx, uid, s); err != nil {
		a.log.Error("save settings", zap.String("uid", uid), zap.Error(err))
		return err
	}
	return nil
}
