package register

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/logging"
	"github.com/rlourenco/bicicletario/internal/models"
)

// Permission module and actions consulted by the state machine.
const (
	ModuleRegister = "registros"
	ActionView     = "ver"
	ActionAdd      = "adicionar"
	ActionEdit     = "editar"
)

// Store is the persistence collaborator. It must be durable across process
// restarts; the core treats it as at-least-once-on-success and never retries
// on failure.
type Store interface {
	SaveEntries(ctx context.Context, entries []models.Entry) error
	LoadEntries(ctx context.Context) ([]models.Entry, error)
}

// Gate is the capability check consulted before every mutation. Require
// returns a *common.PermissionError naming the missing capability.
type Gate interface {
	Has(module, action string) bool
	Require(module, action string) error
}

// MasterData is the read-only client/bike lookup. The core never creates or
// deletes clients or bikes; it only reads snapshots and category defaults.
type MasterData interface {
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	LoadCategories(ctx context.Context) (map[string]string, error)
}

// Service is the registration state machine. Every mutating operation first
// checks the permission gate, then applies the change through the
// repository, persists the full list, and rebuilds the date-bucket index.
//
// Confirmation-guarded operations take a pre-resolved confirmed flag; the
// caller owns the dialog. confirmed=false aborts with common.ErrCancelled
// and no side effects.
//
// Operations looking up an entry that no longer exists return the zero Entry
// with a nil error: stale ids from a not-yet-re-rendered view are treated as
// a silent no-op, favoring availability over strict error surfacing.
type Service struct {
	repo   *Repository
	index  *Index
	store  Store
	master MasterData
	gate   Gate
	log    logging.Logger
	now    func() time.Time
}

func NewService(repo *Repository, index *Index, store Store, master MasterData, gate Gate, log logging.Logger) *Service {
	return &Service{
		repo:   repo,
		index:  index,
		store:  store,
		master: master,
		gate:   gate,
		log:    log,
		now:    time.Now,
	}
}

// persist rebuilds the index and saves the full entry list. On save failure
// the in-memory repository stays mutated (it remains the operative source of
// truth for the session) and a wrapped common.ErrPersistFailed is returned
// so the caller can warn the operator. No rollback, no retry.
func (s *Service) persist(ctx context.Context) error {
	entries := s.repo.GetAll()
	s.index.Rebuild(entries)
	if err := s.store.SaveEntries(ctx, entries); err != nil {
		s.log.Error(ctx, "saving entries failed", "error", err)
		return fmt.Errorf("%w: %v", common.ErrPersistFailed, err)
	}
	return nil
}

// OpenEntry checks a client's bike into the lot. Category defaults to the
// client's stored category when left empty. The bike's descriptive fields
// are snapshotted onto the entry.
func (s *Service) OpenEntry(ctx context.Context, clientID, bikeID, category string) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionAdd); err != nil {
		return models.Entry{}, err
	}

	client, err := s.master.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "open entry for unknown client", "client_id", clientID)
			return models.Entry{}, nil
		}
		return models.Entry{}, err
	}
	bike, ok := client.BikeByID(bikeID)
	if !ok {
		s.log.Warn(ctx, "open entry for unknown bike", "client_id", clientID, "bike_id", bikeID)
		return models.Entry{}, nil
	}

	if category == "" {
		category = client.Category
	}

	e := models.Entry{
		ID:             uuid.NewString(),
		ClientID:       client.ID,
		BikeID:         bike.ID,
		BikeSnapshot:   bike.Snapshot(),
		Category:       category,
		EntryTimestamp: s.now(),
	}

	s.repo.Add(e)
	s.log.Info(ctx, "entry opened", "entry_id", e.ID, "client_id", client.ID, "bike_id", bike.ID)
	return e, s.persist(ctx)
}

// RegisterExit closes an open entry with the current time. Calling it on an
// already closed entry is an idempotent no-op.
func (s *Service) RegisterExit(ctx context.Context, entryID string) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if !e.Open() {
		return e, nil
	}

	t := s.now()
	e.ExitTimestamp = &t
	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.log.Info(ctx, "exit registered", "entry_id", e.ID)
	return e, s.persist(ctx)
}

// RemoveAccess force-closes an open entry, flagging it so reports can tell
// an involuntary closure from a normal checkout.
func (s *Service) RemoveAccess(ctx context.Context, entryID string, confirmed bool) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}
	if !confirmed {
		return models.Entry{}, common.ErrCancelled
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if !e.Open() {
		return e, nil
	}

	t := s.now()
	e.ExitTimestamp = &t
	e.AccessRemoved = true
	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.log.Info(ctx, "access removed", "entry_id", e.ID)
	return e, s.persist(ctx)
}

// RevertClosure reopens a closed entry, clearing the exit timestamp and the
// access-removed flag. It works uniformly whether the entry was closed by a
// normal exit or by access removal.
func (s *Service) RevertClosure(ctx context.Context, entryID string, confirmed bool) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}
	if !confirmed {
		return models.Entry{}, common.ErrCancelled
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if e.Open() {
		return e, nil
	}

	e.ExitTimestamp = nil
	e.AccessRemoved = false
	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.log.Info(ctx, "closure reverted", "entry_id", e.ID)
	return e, s.persist(ctx)
}

// EditEntryParams carries the full replacement values for EditEntry.
// Category left empty keeps the entry's prior category, falling back to the
// client's category when the entry had none.
type EditEntryParams struct {
	EntryID        string
	ClientID       string
	BikeID         string
	Category       string
	EntryTimestamp time.Time
	ExitTimestamp  *time.Time
}

// EditEntry overwrites an entry's client, bike, category and timestamps to
// correct mistakes post-hoc. The bike snapshot is looked up fresh from the
// current master record. Clearing the exit timestamp also clears the
// access-removed flag, as the entry is reopened.
func (s *Service) EditEntry(ctx context.Context, p EditEntryParams) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}

	e, err := s.repo.FindByID(p.EntryID)
	if err != nil {
		return models.Entry{}, nil
	}

	if p.BikeID == "" {
		return models.Entry{}, fmt.Errorf("%w: no bike selected", common.ErrValidation)
	}
	if p.EntryTimestamp.IsZero() {
		return models.Entry{}, fmt.Errorf("%w: no entry timestamp", common.ErrValidation)
	}

	client, err := s.master.FindClientByID(ctx, p.ClientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Entry{}, fmt.Errorf("%w: client %s not found", common.ErrValidation, p.ClientID)
		}
		return models.Entry{}, err
	}
	bike, ok := client.BikeByID(p.BikeID)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: bike %s does not belong to client %s", common.ErrValidation, p.BikeID, p.ClientID)
	}

	category := p.Category
	if category == "" {
		category = e.Category
		if category == "" {
			category = client.Category
		}
	}

	e.ClientID = client.ID
	e.BikeID = bike.ID
	e.BikeSnapshot = bike.Snapshot()
	e.Category = category
	e.EntryTimestamp = p.EntryTimestamp
	e.ExitTimestamp = p.ExitTimestamp
	if p.ExitTimestamp == nil {
		e.AccessRemoved = false
	}

	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.log.Info(ctx, "entry edited", "entry_id", e.ID)
	return e, s.persist(ctx)
}

// ReassignBike moves an open entry to another bike of the same client,
// refreshing the snapshot. It fails with a validation error when the client
// has fewer than two bikes or the chosen bike is not theirs.
func (s *Service) ReassignBike(ctx context.Context, entryID, newBikeID string) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if !e.Open() {
		return e, nil
	}

	client, err := s.master.FindClientByID(ctx, e.ClientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Entry{}, nil
		}
		return models.Entry{}, err
	}
	if len(client.Bikes) < 2 {
		return models.Entry{}, fmt.Errorf("%w: client %s has no alternative bike", common.ErrValidation, client.ID)
	}
	bike, ok := client.BikeByID(newBikeID)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: bike %s does not belong to client %s", common.ErrValidation, newBikeID, client.ID)
	}

	e.BikeID = bike.ID
	e.BikeSnapshot = bike.Snapshot()
	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.log.Info(ctx, "bike reassigned", "entry_id", e.ID, "bike_id", bike.ID)
	return e, s.persist(ctx)
}

// AvailableBikes returns the client's bikes that have no open entry, i.e.
// the ones a companion entry may be opened for.
func (s *Service) AvailableBikes(ctx context.Context, clientID string) ([]models.Bike, error) {
	client, err := s.master.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var out []models.Bike
	for _, b := range client.Bikes {
		if !s.repo.HasOpenEntryForBike(b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// AddCompanionBike opens a second entry for the same client as an existing
// one, sharing its entry timestamp so one check-in event covers multiple
// bikes. The exit lifecycle of the new entry is independent. The chosen bike
// must have no open entry.
func (s *Service) AddCompanionBike(ctx context.Context, entryID, bikeID string) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionAdd); err != nil {
		return models.Entry{}, err
	}

	base, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}

	client, err := s.master.FindClientByID(ctx, base.ClientID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Entry{}, nil
		}
		return models.Entry{}, err
	}
	bike, ok := client.BikeByID(bikeID)
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: bike %s does not belong to client %s", common.ErrValidation, bikeID, client.ID)
	}
	if s.repo.HasOpenEntryForBike(bike.ID) {
		return models.Entry{}, fmt.Errorf("%w: bike %s already has an open entry", common.ErrValidation, bike.ID)
	}

	e := models.Entry{
		ID:             uuid.NewString(),
		ClientID:       client.ID,
		BikeID:         bike.ID,
		BikeSnapshot:   bike.Snapshot(),
		Category:       client.Category,
		EntryTimestamp: base.EntryTimestamp,
	}

	s.repo.Add(e)
	s.log.Info(ctx, "companion bike added", "entry_id", e.ID, "base_entry_id", base.ID)
	return e, s.persist(ctx)
}

// StartOvernight chains an open entry into the next calendar day: a clone
// entry dated one day later is created with a back-reference to the
// original, and both sides are flagged overnight. The original is not
// closed; both entries exist and keep independent lifecycles. The clone
// inherits the bike snapshot and preserves the true original entry time.
func (s *Service) StartOvernight(ctx context.Context, entryID string, confirmed bool) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}
	if !confirmed {
		return models.Entry{}, common.ErrCancelled
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if !e.Open() || e.Overnight {
		return e, nil
	}

	originalTS := e.EntryTimestamp
	clone := models.Entry{
		ID:                     uuid.NewString(),
		ClientID:               e.ClientID,
		BikeID:                 e.BikeID,
		BikeSnapshot:           e.BikeSnapshot,
		Category:               e.Category,
		EntryTimestamp:         e.EntryTimestamp.AddDate(0, 0, 1),
		Overnight:              true,
		OriginalEntryID:        e.ID,
		OriginalEntryTimestamp: &originalTS,
	}

	e.Overnight = true
	e.OvernightEntryID = clone.ID
	if err := s.repo.Replace(e); err != nil {
		return models.Entry{}, nil
	}
	s.repo.Add(clone)
	s.log.Info(ctx, "overnight started", "entry_id", e.ID, "overnight_entry_id", clone.ID)
	return clone, s.persist(ctx)
}

// RevertOvernight undoes an overnight chain from either side of the pair:
// the clone is deleted and the original's flags are cleared. The surviving
// original entry is returned.
func (s *Service) RevertOvernight(ctx context.Context, entryID string, confirmed bool) (models.Entry, error) {
	if err := s.gate.Require(ModuleRegister, ActionEdit); err != nil {
		return models.Entry{}, err
	}
	if !confirmed {
		return models.Entry{}, common.ErrCancelled
	}

	e, err := s.repo.FindByID(entryID)
	if err != nil {
		return models.Entry{}, nil
	}
	if !e.Overnight {
		return e, nil
	}

	var original models.Entry
	if e.OriginalEntryID != "" {
		// Invoked on the clone: unlink the original, drop the clone itself.
		original, err = s.repo.FindByID(e.OriginalEntryID)
		if err == nil {
			original.Overnight = false
			original.OvernightEntryID = ""
			_ = s.repo.Replace(original)
		}
		_ = s.repo.Remove(e.ID)
	} else {
		// Invoked on the original: drop the clone, clear our own flags.
		if e.OvernightEntryID != "" {
			_ = s.repo.Remove(e.OvernightEntryID)
		}
		e.Overnight = false
		e.OvernightEntryID = ""
		if err := s.repo.Replace(e); err != nil {
			return models.Entry{}, nil
		}
		original = e
	}

	s.log.Info(ctx, "overnight reverted", "entry_id", original.ID)
	return original, s.persist(ctx)
}
