package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/config"
	"github.com/optimapped/optimapped/internal/localcache"
	"github.com/optimapped/optimapped/internal/logging"
	"github.com/optimapped/optimapped/internal/store"
	fsstore "github.com/optimapped/optimapped/internal/store/firestore"
)

var errNotSignedIn = errors.New("not signed in: run optimapped and sign in first")

// env is everything a command needs: config, logger, the local
// database, the document backend and the device-local cache.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	st    *store.Store
	docs  store.DocumentRepo
	local *localcache.Cache

	closers []func() error
}

// openEnv resolves configuration from the --config and --db flags and
// opens every backing store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")

	cfg, err := config.Load(config.LoadOptions{ConfigFile: cfgFile, DBPath: dbPath})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, func() error {
		_ = log.Sync()
		return nil
	})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.st = st
	e.docs = st.DocumentRepo()
	e.closers = append(e.closers, st.Close)

	if cfg.Storage.Backend == config.BackendFirestore {
		docs, err := openFirestore(cmd.Context(), cfg.Storage)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.docs = docs
		e.closers = append(e.closers, docs.Close)
	}

	local, err := localcache.Open(cfg.CacheDir)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	e.local = local

	log.Debug("environment ready",
		zap.String("db", cfg.DBPath),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("config", cfg.File))
	return e, nil
}

func openFirestore(ctx context.Context, sc config.StorageConfig) (*fsstore.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var opts []option.ClientOption
	if sc.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(sc.CredentialsFile))
	}
	docs, err := fsstore.New(ctx, sc.FirestoreProject, sc.FirestoreDatabase, opts...)
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	return docs, nil
}

// session restores the signed-in user from the local cache.
func (e *env) session() *auth.Session {
	return auth.NewSession(e.local, e.log)
}

// user returns the signed-in user or errNotSignedIn.
func (e *env) user() (*auth.User, error) {
	u := e.session().Current()
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close", zap.Error(err))
		}
	}
}
