package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/prepstock/internal/db"
	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
	"github.com/vbonduro/prepstock/internal/form"
	"github.com/vbonduro/prepstock/internal/inventory"
	"github.com/vbonduro/prepstock/internal/store"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newTestService wires the service to an empty inventory persisted in an
// in-memory SQLite database.
func newTestService(t *testing.T) *InventoryService {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	blobs := store.NewBlobStore(d, store.SQLite)
	require.NoError(t, blobs.Put(context.Background(), inventory.ItemsKey, []byte(`[]`)))

	inv := inventory.Open(context.Background(), blobs, inventory.WithClock(clock), inventory.WithLogger(slog.Default()))
	return NewInventoryService(inv, clock, slog.Default())
}

func addItem(t *testing.T, svc *InventoryService, name string, category domain.Category, days int) domain.Item {
	t.Helper()
	return svc.AddItem(context.Background(), domain.ItemDraft{
		Name:           name,
		Category:       category,
		ExpirationDate: fixedNow.AddDate(0, 0, days),
		ReminderDate:   fixedNow.AddDate(0, 0, days-7),
	})
}

func TestScenarioA_ExpiredItem(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Water Storage", domain.CategoryWater, -5)

	assert.Equal(t, domain.StatusDanger, svc.GetItemStatus(item))
	assert.Equal(t, -5, svc.DaysRemaining(item))

	expired := svc.ListItems(filter.Query{Days: filter.BucketExpired})
	require.Len(t, expired.Items, 1)
	assert.Equal(t, item.ID, expired.Items[0].ID)

	week := svc.ListItems(filter.Query{Days: filter.BucketWeek})
	assert.Empty(t, week.Items)
	assert.True(t, week.NoMatches())
}

func TestScenarioB_WarningCountsAsExpiringSoon(t *testing.T) {
	svc := newTestService(t)
	require.Equal(t, 30, svc.Settings().WarningThreshold)
	item := addItem(t, svc, "Canned Food", domain.CategoryFood, 10)

	assert.Equal(t, domain.StatusWarning, svc.GetItemStatus(item))

	summaries := svc.GetCategorySummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.CategoryFood, summaries[0].Category)
	assert.GreaterOrEqual(t, summaries[0].ExpiringSoon, 1)
	assert.Zero(t, summaries[0].Expired)
}

func TestScenarioC_DeletingLastItemDropsCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	addItem(t, svc, "Rice", domain.CategoryFood, 200)
	kit := addItem(t, svc, "First Aid Kit", domain.CategoryMedical, 365)

	require.Len(t, svc.GetCategorySummaries(), 2)
	require.True(t, svc.DeleteItem(ctx, kit.ID))

	summaries := svc.GetCategorySummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.CategoryFood, summaries[0].Category)
}

func TestScenarioD_UnregisteredCustomCategory(t *testing.T) {
	svc := newTestService(t)
	addItem(t, svc, "Dog food", "pets", 90)

	summaries := svc.GetCategorySummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.Category("pets"), summaries[0].Category)
	assert.Equal(t, 1, summaries[0].TotalItems)

	r := svc.CategoryResolver()
	assert.Equal(t, "pets", r.Label("pets"))
	assert.Equal(t, "package", r.Icon("pets"))
}

func TestFormDatesClassifyByCalendarDay(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		expires string
		days    int
		status  domain.Status
		bucket  filter.Bucket
	}{
		{"2025-05-31", -1, domain.StatusDanger, filter.BucketExpired},
		{"2025-06-01", 0, domain.StatusWarning, filter.BucketToday},
		{"2025-06-02", 1, domain.StatusWarning, filter.BucketWeek},
	}
	for _, tt := range tests {
		t.Run(tt.expires, func(t *testing.T) {
			draft, errs := form.ItemInput{Name: "Item " + tt.expires, ExpirationDate: tt.expires}.Draft(svc.CategoryResolver(), fixedNow)
			require.Empty(t, errs)
			item := svc.AddItem(context.Background(), draft)

			assert.Equal(t, tt.days, svc.DaysRemaining(item))
			assert.Equal(t, tt.status, svc.GetItemStatus(item))

			res := svc.ListItems(filter.Query{Text: "Item " + tt.expires, Days: tt.bucket})
			require.Len(t, res.Items, 1)
			assert.Equal(t, item.ID, res.Items[0].ID)
		})
	}
}

func TestThresholdChangeReclassifies(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Batteries", domain.CategoryTools, 20)
	require.Equal(t, domain.StatusWarning, svc.GetItemStatus(item))

	threshold := 14
	svc.UpdateSettings(context.Background(), domain.SettingsPatch{WarningThreshold: &threshold})

	assert.Equal(t, domain.StatusSafe, svc.GetItemStatus(item))
}

func TestUpdateItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	item := addItem(t, svc, "Rice", domain.CategoryFood, 200)

	location := "Pantry"
	updated, ok := svc.UpdateItem(ctx, item.ID, domain.ItemPatch{Location: &location})
	require.True(t, ok)
	assert.Equal(t, "Pantry", updated.Location)

	got, ok := svc.GetItemByID(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Pantry", got.Location)

	_, ok = svc.UpdateItem(ctx, "missing", domain.ItemPatch{Location: &location})
	assert.False(t, ok)
	assert.False(t, svc.DeleteItem(ctx, "missing"))
}

func TestListItems_EmptyVersusNoMatches(t *testing.T) {
	svc := newTestService(t)

	res := svc.ListItems(filter.Query{Text: "rice"})
	assert.True(t, res.Empty())
	assert.False(t, res.NoMatches())

	addItem(t, svc, "Beans", domain.CategoryFood, 200)
	res = svc.ListItems(filter.Query{Text: "rice"})
	assert.False(t, res.Empty())
	assert.True(t, res.NoMatches())

	res = svc.ListItems(filter.Query{Text: "BEA"})
	assert.Len(t, res.Items, 1)
}

func TestCustomCategoryLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cc := svc.AddCustomCategory(ctx, domain.CustomCategoryDraft{Value: "pets", Label: "Pets", Icon: "paw-print"})
	addItem(t, svc, "Dog food", "pets", 90)

	r := svc.CategoryResolver()
	assert.Equal(t, "Pets", r.Label("pets"))
	assert.Equal(t, "paw-print", r.Icon("pets"))

	require.True(t, svc.DeleteCustomCategory(ctx, cc.ID))
	assert.False(t, svc.DeleteCustomCategory(ctx, cc.ID))

	views := svc.Views(svc.ListItems(filter.Query{}).Items)
	require.Len(t, views, 1)
	assert.Equal(t, domain.Category("pets"), views[0].Category)
	assert.Equal(t, "pets", views[0].CategoryLabel)
	assert.Equal(t, "package", views[0].CategoryIcon)
}

func TestView(t *testing.T) {
	svc := newTestService(t)
	item := addItem(t, svc, "Radio", domain.CategoryCommunication, 400)

	v := svc.View(item)
	assert.Equal(t, item.ID, v.ID)
	assert.Equal(t, domain.StatusSafe, v.Status)
	assert.Equal(t, 400, v.DaysRemaining)
	assert.Equal(t, "Communication", v.CategoryLabel)
	assert.Equal(t, "phone", v.CategoryIcon)
}

func TestServiceStatePersists(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	blobs := store.NewBlobStore(d, store.SQLite)
	ctx := context.Background()

	first := NewInventoryService(inventory.Open(ctx, blobs, inventory.WithClock(clock)), clock, slog.Default())
	require.Len(t, first.ListItems(filter.Query{}).Items, 3)
	added := addItem(t, first, "Matches", domain.CategoryTools, 100)

	second := NewInventoryService(inventory.Open(ctx, blobs, inventory.WithClock(clock)), clock, slog.Default())
	got, ok := second.GetItemByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Matches", got.Name)
	assert.Len(t, second.ListItems(filter.Query{}).Items, 4)
}
