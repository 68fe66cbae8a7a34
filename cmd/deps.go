package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/config"
	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/kv"
	"github.com/st-academy/academy/internal/llm"
	"github.com/st-academy/academy/internal/logger"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/store"
	"github.com/st-academy/academy/internal/tutor"
)

// progressKV is a progress backend that owns a connection.
type progressKV interface {
	progress.KV
	Close() error
}

// deps holds everything a command may need. Fields are filled by
// openDeps; Close releases them in reverse order.
type deps struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *store.Store
	kv         progressKV
	progress   *progress.Store
	curriculum *curriculum.Static
	sender     *receipt.SolanaSender
	identity   string
}

// openOptions selects optional pieces.
type openOptions struct {
	// tui keeps stderr free and logs only to the rotating file.
	tui bool
}

func openDeps(cmd *cobra.Command, opts openOptions) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	if err := d.openLogger(opts.tui); err != nil {
		return nil, err
	}

	if err := d.openStore(); err != nil {
		d.Close()
		return nil, err
	}

	if err := d.openKV(cmd.Context()); err != nil {
		d.Close()
		return nil, err
	}
	d.progress = progress.NewStore(d.kv, progress.WithLogger(d.logger.Named("progress")))

	if cfg.Curriculum.Path != "" {
		d.curriculum, err = curriculum.LoadFile(cfg.Curriculum.Path)
	} else {
		d.curriculum, err = curriculum.Default()
	}
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("load curriculum: %w", err)
	}

	if cfg.Identity.Keypair != "" {
		d.sender, err = receipt.NewSolanaSender(receipt.SolanaConfig{
			RPCURL:      cfg.Solana.RPCURL,
			KeypairPath: cfg.Identity.Keypair,
			Timeout:     cfg.Solana.SendTimeout,
			Logger:      d.logger.Named("receipt"),
		})
		if err != nil {
			d.Close()
			return nil, err
		}
	}

	// A signer owns its progress record; a wallet flag is only a fallback.
	switch {
	case d.sender != nil && d.sender.Identity() != "":
		d.identity = d.sender.Identity()
	case cfg.Identity.Wallet != "":
		if err := receipt.ValidateAddress(cfg.Identity.Wallet); err != nil {
			d.Close()
			return nil, fmt.Errorf("wallet %q: %w", cfg.Identity.Wallet, err)
		}
		d.identity = cfg.Identity.Wallet
	}

	d.logger.Debug("dependencies ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("identity", d.identityLabel()),
	)
	return d, nil
}

func (d *deps) openLogger(tui bool) error {
	file := d.cfg.Log.File
	if file == "" && tui {
		var err error
		if file, err = logger.DefaultFile(); err != nil {
			return err
		}
	}
	l, err := logger.New(logger.Options{
		Level:      d.cfg.Log.Level,
		File:       file,
		MaxSizeMB:  d.cfg.Log.MaxSizeMB,
		MaxBackups: d.cfg.Log.MaxBackups,
		MaxAgeDays: d.cfg.Log.MaxAgeDays,
		Console:    !tui && d.cfg.Log.Level == "debug",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	d.logger = l
	return nil
}

// openStore opens the SQLite event database. It is needed by every backend
// because the lesson and LLM event logs always live there.
func (d *deps) openStore() error {
	dbPath, err := resolveDBPath(d.cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	d.store = s
	return nil
}

func (d *deps) openKV(ctx context.Context) error {
	st := d.cfg.Storage
	switch st.Backend {
	case config.BackendSQLite:
		d.kv = d.store.KV()
	case config.BackendMemory:
		d.kv = kv.NewMemory()
	case config.BackendFile:
		dir := st.Dir
		if dir == "" {
			dbPath, err := resolveDBPath(d.cfg)
			if err != nil {
				return err
			}
			dir = filepath.Join(filepath.Dir(dbPath), "progress")
		}
		f, err := kv.NewFile(dir)
		if err != nil {
			return fmt.Errorf("open file backend: %w", err)
		}
		d.kv = f
	case config.BackendRedis:
		r, err := kv.NewRedis(ctx, kv.RedisOptions{
			Addr:     st.RedisAddr,
			Password: st.RedisPass,
			DB:       st.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("open redis backend: %w", err)
		}
		d.kv = r
	case config.BackendPostgres:
		p, err := kv.NewPostgres(ctx, st.PostgresURL, kv.PoolConfig{
			MaxConns:        st.MaxConns,
			MaxConnLifetime: st.ConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("open postgres backend: %w", err)
		}
		d.kv = p
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownBackend, st.Backend)
	}
	return nil
}

// env builds the TUI environment. The tutor is attached only when an LLM
// provider is configured and enabled.
func (d *deps) env(ctx context.Context) *screen.Env {
	env := &screen.Env{
		Ctx:        ctx,
		Curriculum: d.curriculum,
		Progress:   d.progress,
		Events:     d.store.EventRepo(),
		Cluster:    d.cfg.Solana.Cluster,
		Logger:     d.logger,
		Identity:   d.identity,
	}
	if d.sender != nil {
		env.Sender = d.sender
	}

	if !d.cfg.Tutor.Enabled {
		return env
	}
	provider, err := llm.FromEnv(ctx, d.cfg.Tutor.Model, d.store.EventRepo(), d.logger.Named("llm"))
	switch {
	case err != nil:
		d.logger.Warn("llm provider unavailable, tutor disabled", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Tutor explanations will be unavailable.")
	case provider != nil:
		env.Tutor = tutor.NewService(provider, tutor.DefaultConfig())
	}
	return env
}

func (d *deps) identityLabel() string {
	if d.identity == "" {
		return progress.AnonymousIdentity
	}
	return d.identity
}

// Close releases the backend, the database and flushes the logger.
func (d *deps) Close() {
	var errs []error
	if d.kv != nil {
		if _, shared := d.kv.(*store.KVRepo); !shared {
			errs = append(errs, d.kv.Close())
		}
	}
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	if err := errors.Join(errs...); err != nil && d.logger != nil {
		d.logger.Warn("close dependencies", zap.Error(err))
	}
	if d.logger != nil {
		_ = d.logger.Sync()
	}
}

// resolveDBPath returns the database path using --db / storage.db_path
// (highest priority), then ACADEMY_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
