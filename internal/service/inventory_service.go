package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
	"github.com/vbonduro/prepstock/internal/reference"
	"github.com/vbonduro/prepstock/internal/status"
)

// inventoryStore is the subset of inventory.Store that InventoryService requires.
type inventoryStore interface {
	Items() []domain.Item
	Get(id string) (domain.Item, bool)
	Add(ctx context.Context, draft domain.ItemDraft) domain.Item
	Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, bool)
	Remove(ctx context.Context, id string) bool
	Settings() domain.Settings
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) domain.Settings
	AddCustomCategory(ctx context.Context, draft domain.CustomCategoryDraft) domain.CustomCategory
	RemoveCustomCategory(ctx context.Context, id string) bool
}

// InventoryService is the query interface the presentation layers talk to.
// Status is always evaluated against the current warning threshold and the
// service clock.
type InventoryService struct {
	store  inventoryStore
	now    func() time.Time
	logger *slog.Logger
}

func NewInventoryService(store inventoryStore, now func() time.Time, logger *slog.Logger) *InventoryService {
	if now == nil {
		now = time.Now
	}
	return &InventoryService{
		store:  store,
		now:    now,
		logger: logger,
	}
}

func (s *InventoryService) classifier() status.Classifier {
	return status.Classifier{
		Threshold: s.store.Settings().WarningThreshold,
		Now:       s.now(),
	}
}

func (s *InventoryService) GetItemByID(id string) (domain.Item, bool) {
	return s.store.Get(id)
}

func (s *InventoryService) AddItem(ctx context.Context, draft domain.ItemDraft) domain.Item {
	item := s.store.Add(ctx, draft)
	s.logger.Info("item added", "id", item.ID, "category", item.Category)
	return item
}

func (s *InventoryService) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, bool) {
	item, ok := s.store.Update(ctx, id, patch)
	if !ok {
		s.logger.Debug("update of unknown item ignored", "id", id)
		return domain.Item{}, false
	}
	s.logger.Info("item updated", "id", id)
	return item, true
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) bool {
	if !s.store.Remove(ctx, id) {
		s.logger.Debug("delete of unknown item ignored", "id", id)
		return false
	}
	s.logger.Info("item deleted", "id", id)
	return true
}

func (s *InventoryService) GetCategorySummaries() []domain.CategorySummary {
	return status.Summarize(s.store.Items(), s.classifier())
}

func (s *InventoryService) GetItemStatus(item domain.Item) domain.Status {
	return s.classifier().Status(item)
}

func (s *InventoryService) DaysRemaining(item domain.Item) int {
	return status.DaysRemaining(item.ExpirationDate, s.now())
}

// ListItems applies q to the current collection.
func (s *InventoryService) ListItems(q filter.Query) filter.Result {
	return filter.Apply(s.store.Items(), q, s.classifier())
}

func (s *InventoryService) Settings() domain.Settings {
	return s.store.Settings()
}

func (s *InventoryService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) domain.Settings {
	settings := s.store.UpdateSettings(ctx, patch)
	s.logger.Info("settings updated",
		"warning_threshold", settings.WarningThreshold,
		"reminder_days", settings.ReminderDays,
		"notifications", settings.NotificationsEnabled)
	return settings
}

func (s *InventoryService) AddCustomCategory(ctx context.Context, draft domain.CustomCategoryDraft) domain.CustomCategory {
	cc := s.store.AddCustomCategory(ctx, draft)
	s.logger.Info("custom category added", "id", cc.ID, "value", cc.Value)
	return cc
}

// DeleteCustomCategory removes a custom category. Items keep the value and
// render through the resolver fallback.
func (s *InventoryService) DeleteCustomCategory(ctx context.Context, id string) bool {
	if !s.store.RemoveCustomCategory(ctx, id) {
		return false
	}
	s.logger.Info("custom category deleted", "id", id)
	return true
}

// CategoryResolver returns a resolver over the current custom categories.
func (s *InventoryService) CategoryResolver() *reference.Resolver {
	return reference.NewResolver(s.store.Settings().CustomCategories)
}

// ItemView bundles an item with everything derived from it for rendering.
type ItemView struct {
	domain.Item
	Status        domain.Status `json:"status"`
	DaysRemaining int           `json:"daysRemaining"`
	CategoryLabel string        `json:"categoryLabel"`
	CategoryIcon  string        `json:"categoryIcon"`
}

// Views derives ItemViews for items using a single clock reading and settings
// snapshot.
func (s *InventoryService) Views(items []domain.Item) []ItemView {
	c := s.classifier()
	r := s.CategoryResolver()

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			Item:          item,
			Status:        c.Status(item),
			DaysRemaining: c.DaysRemaining(item),
			CategoryLabel: r.Label(item.Category),
			CategoryIcon:  r.Icon(item.Category),
		})
	}
	return views
}

func (s *InventoryService) View(item domain.Item) ItemView {
	return s.Views([]domain.Item{item})[0]
}
