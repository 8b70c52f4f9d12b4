package domain

import "time"

// Category is either one of the built-in category values or the value of a
// user-defined CustomCategory.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryWater         Category = "water"
	CategoryMedical       Category = "medical"
	CategoryDocuments     Category = "documents"
	CategoryTools         Category = "tools"
	CategoryCommunication Category = "communication"
	CategoryClothing      Category = "clothing"
	CategoryOther         Category = "other"
)

// BuiltinCategories lists the built-in categories in display order.
var BuiltinCategories = []Category{
	CategoryFood,
	CategoryWater,
	CategoryMedical,
	CategoryDocuments,
	CategoryTools,
	CategoryCommunication,
	CategoryClothing,
	CategoryOther,
}

func (c Category) IsBuiltin() bool {
	for _, b := range BuiltinCategories {
		if c == b {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

type Item struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	Location       string    `json:"location,omitempty"`
	ExpirationDate time.Time `json:"expirationDate"`
	ReminderDate   time.Time `json:"reminderDate"`
	Notes          string    `json:"notes,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ItemDraft carries the caller-supplied fields of a new item.
type ItemDraft struct {
	Name           string
	Category       Category
	Location       string
	ExpirationDate time.Time
	ReminderDate   time.Time
	Notes          string
	ImageURL       string
}

// ItemPatch is a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name           *string
	Category       *Category
	Location       *string
	ExpirationDate *time.Time
	ReminderDate   *time.Time
	Notes          *string
	ImageURL       *string
}

type CustomCategory struct {
	ID    string   `json:"id"`
	Value Category `json:"value"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
}

type CustomCategoryDraft struct {
	Value Category
	Label string
	Icon  string
}

type Settings struct {
	WarningThreshold     int              `json:"warningThreshold"`
	ReminderDays         int              `json:"reminderDays"`
	NotificationsEnabled bool             `json:"notificationsEnabled"`
	CustomCategories     []CustomCategory `json:"customCategories"`
}

// DefaultSettings returns the settings used when none have been persisted.
func DefaultSettings() Settings {
	return Settings{
		WarningThreshold:     30,
		ReminderDays:         7,
		NotificationsEnabled: true,
		CustomCategories:     []CustomCategory{},
	}
}

// SettingsPatch is a shallow partial update. A non-nil CustomCategories
// replaces the whole list.
type SettingsPatch struct {
	WarningThreshold     *int
	ReminderDays         *int
	NotificationsEnabled *bool
	CustomCategories     *[]CustomCategory
}

type CategorySummary struct {
	Category     Category `json:"category"`
	TotalItems   int      `json:"totalItems"`
	ExpiringSoon int      `json:"expiringSoon"`
	Expired      int      `json:"expired"`
}
