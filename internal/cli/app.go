// Package cli implements the operator console: a small REPL over the
// register service. Operators log in, pick a working date, inspect and
// filter the daily view, and run the check-in/check-out operations.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rlourenco/bicicletario/internal/auth"
	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/config"
	"github.com/rlourenco/bicicletario/internal/export"
	"github.com/rlourenco/bicicletario/internal/logging"
	"github.com/rlourenco/bicicletario/internal/masterdata"
	"github.com/rlourenco/bicicletario/internal/register"
	"github.com/rlourenco/bicicletario/internal/storage"
)

const dateLayout = "2006-01-02"

// sessionGate adapts the console's login session to the register.Gate the
// service consults. Before a login (or after logout) every capability check
// fails, so mutations are impossible without a session.
type sessionGate struct {
	mu   sync.Mutex
	gate *auth.Gate
}

func (g *sessionGate) set(gate *auth.Gate) {
	g.mu.Lock()
	g.gate = gate
	g.mu.Unlock()
}

func (g *sessionGate) current() *auth.Gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gate
}

func (g *sessionGate) Has(module, action string) bool {
	gate := g.current()
	return gate != nil && gate.Has(module, action)
}

func (g *sessionGate) Require(module, action string) error {
	gate := g.current()
	if gate == nil {
		return &common.PermissionError{Module: module, Action: action}
	}
	return gate.Require(module, action)
}

// App wires the console together: config, auth, the entry store (file or
// Postgres, selected by DatabaseDSN), master data, the register service and
// the projector.
type App struct {
	config    *config.Config
	log       logging.Logger
	auth      *auth.Service
	session   *sessionGate
	svc       *register.Service
	projector *register.Projector
	index     *register.Index
	master    *masterdata.SQLiteRepository
	uploader  *export.Uploader
	reader    *bufio.Reader

	userName string
	day      string
	filter   string

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	accounts, err := auth.LoadAccounts(cfg.AccountsPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  cfg,
		log:     log,
		auth:    auth.NewService(accounts, []byte(cfg.SecretKey), cfg.SessionValidityDuration),
		session: &sessionGate{},
		reader:  bufio.NewReader(os.Stdin),
		day:     time.Now().Format(dateLayout),
	}

	var store storage.Store
	if cfg.DatabaseDSN != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseDSN)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		store = pg
	} else {
		store = storage.NewFileStore(cfg.EntriesPath)
	}

	db, err := masterdata.OpenDatabase(ctx, cfg.MasterDataPath)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	a.master = masterdata.NewSQLiteRepository(db)

	entries, err := store.LoadEntries(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	repo := register.NewRepository(entries)
	a.index = register.NewIndex()
	a.index.Rebuild(entries)
	a.svc = register.NewService(repo, a.index, store, a.master, a.session, log)
	a.projector = register.NewProjector(repo, a.master)

	a.uploader = export.NewUploader(export.UploaderConfig{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})

	return a, nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.current() != nil
}

func (a *App) status() string {
	s := a.day
	if a.userName != "" {
		s = a.userName + " " + s
	}
	if a.filter != "" {
		s = s + " ~" + a.filter
	}
	return fmt.Sprintf("(%s)", s)
}

// Run starts the console loop and blocks until the operator quits or stdin
// is closed.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Println("Bicicletário daily register (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
