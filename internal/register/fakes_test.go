package register

import (
	"context"
	"io"
	"log/slog"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/logging"
	"github.com/rlourenco/bicicletario/internal/models"
)

// -------- test fakes --------

type fakeGate struct {
	denied map[string]bool // "module.action" -> deny
}

func (g *fakeGate) key(module, action string) string { return module + "." + action }

func (g *fakeGate) Has(module, action string) bool {
	return !g.denied[g.key(module, action)]
}

func (g *fakeGate) Require(module, action string) error {
	if !g.Has(module, action) {
		return &common.PermissionError{Module: module, Action: action}
	}
	return nil
}

type fakeStore struct {
	saved   [][]models.Entry
	saveErr error
	loaded  []models.Entry
}

func (s *fakeStore) SaveEntries(ctx context.Context, entries []models.Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	snapshot := make([]models.Entry, len(entries))
	copy(snapshot, entries)
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *fakeStore) LoadEntries(ctx context.Context) ([]models.Entry, error) {
	return s.loaded, nil
}

type fakeMaster struct {
	clients    map[string]*models.Client
	categories map[string]string
}

func (m *fakeMaster) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *fakeMaster) LoadCategories(ctx context.Context) (map[string]string, error) {
	return m.categories, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
