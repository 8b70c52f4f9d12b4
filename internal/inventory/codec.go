package inventory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vbonduro/prepstock/internal/domain"
)

// itemRecord is the persisted form of an item. Dates travel as strings and
// are parsed back into time.Time on load.
type itemRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Location       string `json:"location,omitempty"`
	ExpirationDate string `json:"expirationDate"`
	ReminderDate   string `json:"reminderDate"`
	Notes          string `json:"notes,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// dateOnly is accepted on load for hand-edited blobs.
const dateOnly = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func encodeItems(items []domain.Item) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, itemRecord{
			ID:             item.ID,
			Name:           item.Name,
			Category:       string(item.Category),
			Location:       item.Location,
			ExpirationDate: formatDate(item.ExpirationDate),
			ReminderDate:   formatDate(item.ReminderDate),
			Notes:          item.Notes,
			ImageURL:       item.ImageURL,
			CreatedAt:      formatDate(item.CreatedAt),
			UpdatedAt:      formatDate(item.UpdatedAt),
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return data, nil
}

// decodeItems rejects the whole blob if any record has a missing id or an
// unparseable date.
func decodeItems(data []byte) ([]domain.Item, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	items := make([]domain.Item, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("item %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true

		item := domain.Item{
			ID:       r.ID,
			Name:     r.Name,
			Category: domain.Category(r.Category),
			Location: r.Location,
			Notes:    r.Notes,
			ImageURL: r.ImageURL,
		}

		dates := []struct {
			dst   *time.Time
			value string
			field string
		}{
			{&item.ExpirationDate, r.ExpirationDate, "expirationDate"},
			{&item.ReminderDate, r.ReminderDate, "reminderDate"},
			{&item.CreatedAt, r.CreatedAt, "createdAt"},
			{&item.UpdatedAt, r.UpdatedAt, "updatedAt"},
		}
		for _, d := range dates {
			t, err := parseDate(d.value)
			if err != nil {
				return nil, fmt.Errorf("item %d: %s: %w", i, d.field, err)
			}
			*d.dst = t
		}

		items = append(items, item)
	}

	return items, nil
}

func encodeSettings(s domain.Settings) ([]byte, error) {
	if s.CustomCategories == nil {
		s.CustomCategories = []domain.CustomCategory{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// decodeSettings overlays the stored fields on the defaults, so blobs written
// before a field existed still load.
func decodeSettings(data []byte) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.WarningThreshold < 1 {
		return domain.Settings{}, fmt.Errorf("failed to decode settings: warningThreshold %d is not positive", s.WarningThreshold)
	}
	if s.ReminderDays < 1 {
		return domain.Settings{}, fmt.Errorf("failed to decode settings: reminderDays %d is not positive", s.ReminderDays)
	}
	if s.CustomCategories == nil {
		s.CustomCategories = []domain.CustomCategory{}
	}
	return s, nil
}
