// Package inventory owns the item collection and the settings, and persists
// both to a blob store after every mutation.
package inventory

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/prepstock/internal/blobstore"
	"github.com/vbonduro/prepstock/internal/domain"
)

// Blob keys.
const (
	ItemsKey    = "emergency-items"
	SettingsKey = "emergency-settings"
)

// Store is the single point of mutation for items and settings. Validation is
// the caller's job; the store accepts any structurally valid input.
//
// Writes to the blob store happen in mutation order under writeMu, which is
// taken before mu is released, so readers never wait on I/O.
type Store struct {
	mu       sync.RWMutex
	items    []domain.Item
	settings domain.Settings

	writeMu sync.Mutex
	blobs   blobstore.BlobStore

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open hydrates a store from blobs. It never fails: a missing items blob is
// replaced by example items, a missing settings blob by the defaults, and an
// unreadable or malformed blob falls back the same way without being
// overwritten until the next mutation.
func Open(ctx context.Context, blobs blobstore.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.hydrate(ctx)
	s.mu.Unlock()

	return s
}

// hydrate must run with mu held and before any mutation.
func (s *Store) hydrate(ctx context.Context) {
	seed := func() { s.items = seedItems(s.now(), s.newID) }

	data, err := s.blobs.Get(ctx, ItemsKey)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		s.logger.Info("no stored items, seeding examples")
		seed()
		data, err := encodeItems(s.items)
		s.put(ctx, ItemsKey, data, err)
	case err != nil:
		s.logger.Warn("failed to load items, using examples", "error", err)
		seed()
	default:
		items, derr := decodeItems(data)
		if derr != nil {
			s.logger.Warn("stored items are malformed, using examples", "error", derr)
			seed()
		} else {
			s.items = items
		}
	}

	data, err = s.blobs.Get(ctx, SettingsKey)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		s.settings = domain.DefaultSettings()
		data, err := encodeSettings(s.settings)
		s.put(ctx, SettingsKey, data, err)
	case err != nil:
		s.logger.Warn("failed to load settings, using defaults", "error", err)
		s.settings = domain.DefaultSettings()
	default:
		settings, derr := decodeSettings(data)
		if derr != nil {
			s.logger.Warn("stored settings are malformed, using defaults", "error", derr)
			settings = domain.DefaultSettings()
		}
		s.settings = settings
	}

	s.logger.Debug("inventory hydrated", "items", len(s.items), "custom_categories", len(s.settings.CustomCategories))
}

// Items returns a snapshot of the collection in insertion order.
func (s *Store) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given id, or false if there is none.
func (s *Store) Get(id string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Item{}, false
}

func (s *Store) Add(ctx context.Context, draft domain.ItemDraft) domain.Item {
	s.mu.Lock()
	now := s.now()
	item := domain.Item{
		ID:             s.newID(),
		Name:           draft.Name,
		Category:       draft.Category,
		Location:       draft.Location,
		ExpirationDate: draft.ExpirationDate,
		ReminderDate:   draft.ReminderDate,
		Notes:          draft.Notes,
		ImageURL:       draft.ImageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.items = append(s.items, item)
	s.persistItemsAndUnlock(ctx)

	return item
}

// Update merges the non-nil fields of patch into the item and refreshes
// UpdatedAt. An unknown id is a no-op and reports false.
func (s *Store) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Item{}, false
	}

	item := s.items[i]
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.ExpirationDate != nil {
		item.ExpirationDate = *patch.ExpirationDate
	}
	if patch.ReminderDate != nil {
		item.ReminderDate = *patch.ReminderDate
	}
	if patch.Notes != nil {
		item.Notes = *patch.Notes
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	item.UpdatedAt = s.now()

	s.items[i] = item
	s.persistItemsAndUnlock(ctx)

	return item, true
}

// Remove deletes the item with the given id. An unknown id is a no-op and
// reports false.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.items = slices.Delete(s.items, i, i+1)
	s.persistItemsAndUnlock(ctx)

	return true
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

func (s *Store) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) domain.Settings {
	s.mu.Lock()
	if patch.WarningThreshold != nil {
		s.settings.WarningThreshold = *patch.WarningThreshold
	}
	if patch.ReminderDays != nil {
		s.settings.ReminderDays = *patch.ReminderDays
	}
	if patch.NotificationsEnabled != nil {
		s.settings.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.CustomCategories != nil {
		s.settings.CustomCategories = slices.Clone(*patch.CustomCategories)
		if s.settings.CustomCategories == nil {
			s.settings.CustomCategories = []domain.CustomCategory{}
		}
	}
	settings := cloneSettings(s.settings)
	s.persistSettingsAndUnlock(ctx)

	return settings
}

// AddCustomCategory appends a category with a fresh id. Uniqueness of the
// value is not checked here.
func (s *Store) AddCustomCategory(ctx context.Context, draft domain.CustomCategoryDraft) domain.CustomCategory {
	s.mu.Lock()
	cc := domain.CustomCategory{
		ID:    s.newID(),
		Value: draft.Value,
		Label: draft.Label,
		Icon:  draft.Icon,
	}
	s.settings.CustomCategories = append(s.settings.CustomCategories, cc)
	s.persistSettingsAndUnlock(ctx)

	return cc
}

// RemoveCustomCategory drops the category with the given id. Items that use
// its value keep it. An unknown id is a no-op and reports false.
func (s *Store) RemoveCustomCategory(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := slices.IndexFunc(s.settings.CustomCategories, func(cc domain.CustomCategory) bool { return cc.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.settings.CustomCategories = slices.Delete(slices.Clone(s.settings.CustomCategories), i, i+1)
	s.persistSettingsAndUnlock(ctx)

	return true
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item domain.Item) bool { return item.ID == id })
}

// persistItemsAndUnlock serializes the items under mu, releases mu and writes
// the blob. The caller must hold mu.
func (s *Store) persistItemsAndUnlock(ctx context.Context) {
	data, err := encodeItems(s.items)
	s.writeAndUnlock(ctx, ItemsKey, data, err)
}

func (s *Store) persistSettingsAndUnlock(ctx context.Context) {
	data, err := encodeSettings(s.settings)
	s.writeAndUnlock(ctx, SettingsKey, data, err)
}

func (s *Store) writeAndUnlock(ctx context.Context, key string, data []byte, encErr error) {
	s.writeMu.Lock()
	s.mu.Unlock()
	defer s.writeMu.Unlock()
	s.put(ctx, key, data, encErr)
}

// put writes a blob, logging failures. Persistence is best-effort.
func (s *Store) put(ctx context.Context, key string, data []byte, encErr error) {
	if encErr != nil {
		s.logger.Error("failed to encode blob", "key", key, "error", encErr)
		return
	}
	if err := s.blobs.Put(ctx, key, data); err != nil {
		s.logger.Error("failed to persist blob", "key", key, "error", err)
		return
	}
	s.logger.Debug("blob persisted", "key", key, "bytes", len(data))
}

func cloneSettings(s domain.Settings) domain.Settings {
	s.CustomCategories = slices.Clone(s.CustomCategories)
	if s.CustomCategories == nil {
		s.CustomCategories = []domain.CustomCategory{}
	}
	return s
}
