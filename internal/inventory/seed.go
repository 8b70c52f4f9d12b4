package inventory

import (
	"time"

	"github.com/vbonduro/prepstock/internal/domain"
)

// seedItems returns the example items a fresh inventory starts with: one safe,
// one approaching expiration and one already expired.
func seedItems(now time.Time, newID func() string) []domain.Item {
	mk := func(name string, c domain.Category, exp, rem time.Time, notes string) domain.Item {
		return domain.Item{
			ID:             newID(),
			Name:           name,
			Category:       c,
			ExpirationDate: exp,
			ReminderDate:   rem,
			Notes:          notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	return []domain.Item{
		mk("First Aid Kit", domain.CategoryMedical,
			now.AddDate(1, 0, 0), now.AddDate(0, 11, 0),
			"Basic medicine and bandages"),
		mk("Canned Food", domain.CategoryFood,
			now.AddDate(0, 1, 0), now.AddDate(0, 0, 20),
			"6 cans of beans, 4 cans of tuna"),
		mk("Water Storage", domain.CategoryWater,
			now.AddDate(0, 0, -5), now.AddDate(0, 0, -12),
			"10 liters of drinking water"),
	}
}
