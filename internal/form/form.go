// Package form turns raw user input from the HTTP and terminal surfaces into
// validated drafts and patches. Nothing reaches the inventory store without
// passing through here.
package form

import (
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/reference"
)

// Errors maps a field name to a user-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	msgs := make([]string, 0, len(e))
	for _, field := range slices.Sorted(maps.Keys(e)) {
		msgs = append(msgs, field+": "+e[field])
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Err returns e as an error, or nil when there are no field errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

const dateOnly = "2006-01-02"

// ParseDate accepts a calendar date or an RFC 3339 timestamp. Calendar dates
// are placed at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NewItemDefaults returns the dates a blank item form starts with: expiration
// three months out, reminder a week before that.
func NewItemDefaults(now time.Time) (expiration, reminder time.Time) {
	expiration = now.AddDate(0, 3, 0)
	reminder = expiration.AddDate(0, 0, -7)
	return expiration, reminder
}

// ItemInput is the raw content of the add-item form.
type ItemInput struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Location       string `json:"location"`
	ExpirationDate string `json:"expirationDate"`
	ReminderDate   string `json:"reminderDate"`
	Notes          string `json:"notes"`
	ImageURL       string `json:"imageUrl"`
}

// Draft validates in. Blank dates take the NewItemDefaults values, except
// that a blank reminder sits a week before a given expiration. A blank
// category becomes food.
func (in ItemInput) Draft(r *reference.Resolver, now time.Time) (domain.ItemDraft, Errors) {
	errs := Errors{}
	defExp, defRem := NewItemDefaults(now)

	draft := domain.ItemDraft{
		Name:     strings.TrimSpace(in.Name),
		Category: domain.Category(strings.TrimSpace(in.Category)),
		Location: strings.TrimSpace(in.Location),
		Notes:    strings.TrimSpace(in.Notes),
		ImageURL: strings.TrimSpace(in.ImageURL),
	}
	if draft.Name == "" {
		errs["name"] = "name is required"
	}
	if draft.Category == "" {
		draft.Category = domain.CategoryFood
	} else if !r.Known(draft.Category) {
		errs["category"] = "unknown category"
	}

	draft.ExpirationDate = dateField(errs, "expirationDate", in.ExpirationDate, defExp, now.Location())
	if _, bad := errs["expirationDate"]; !bad && strings.TrimSpace(in.ExpirationDate) != "" {
		defRem = draft.ExpirationDate.AddDate(0, 0, -7)
	}
	draft.ReminderDate = dateField(errs, "reminderDate", in.ReminderDate, defRem, now.Location())

	if draft.ImageURL != "" && !validImageURL(draft.ImageURL) {
		errs["imageUrl"] = "must be an http(s) URL or a data URI"
	}

	return draft, errs
}

func dateField(errs Errors, field, raw string, def time.Time, loc *time.Location) time.Time {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	t, ok := ParseDate(raw, loc)
	if !ok {
		errs[field] = "must be a date (YYYY-MM-DD)"
	}
	return t
}

// ItemPatchInput is the raw content of the edit-item form. Nil fields are
// left unchanged.
type ItemPatchInput struct {
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Location       *string `json:"location"`
	ExpirationDate *string `json:"expirationDate"`
	ReminderDate   *string `json:"reminderDate"`
	Notes          *string `json:"notes"`
	ImageURL       *string `json:"imageUrl"`
}

// Patch validates in against the item being edited. The item's current
// category is accepted even if it is no longer registered.
func (in ItemPatchInput) Patch(r *reference.Resolver, current domain.Item) (domain.ItemPatch, Errors) {
	errs := Errors{}
	var patch domain.ItemPatch
	loc := current.ExpirationDate.Location()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			errs["name"] = "name is required"
		}
		patch.Name = &name
	}
	if in.Category != nil {
		c := domain.Category(strings.TrimSpace(*in.Category))
		if c != current.Category && !r.Known(c) {
			errs["category"] = "unknown category"
		}
		patch.Category = &c
	}
	patch.Location = trimmed(in.Location)
	patch.Notes = trimmed(in.Notes)
	if in.ImageURL != nil {
		u := strings.TrimSpace(*in.ImageURL)
		if u != "" && !validImageURL(u) {
			errs["imageUrl"] = "must be an http(s) URL or a data URI"
		}
		patch.ImageURL = &u
	}
	if in.ExpirationDate != nil {
		t, ok := ParseDate(*in.ExpirationDate, loc)
		if !ok {
			errs["expirationDate"] = "must be a date (YYYY-MM-DD)"
		}
		patch.ExpirationDate = &t
	}
	if in.ReminderDate != nil {
		t, ok := ParseDate(*in.ReminderDate, loc)
		if !ok {
			errs["reminderDate"] = "must be a date (YYYY-MM-DD)"
		}
		patch.ReminderDate = &t
	}

	return patch, errs
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func validImageURL(s string) bool {
	if strings.HasPrefix(s, "data:image/") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SettingsInput is the raw content of the settings form.
type SettingsInput struct {
	WarningThreshold     *int  `json:"warningThreshold"`
	ReminderDays         *int  `json:"reminderDays"`
	NotificationsEnabled *bool `json:"notificationsEnabled"`
}

// Patch validates in. Both day counts must be at least 1.
func (in SettingsInput) Patch() (domain.SettingsPatch, Errors) {
	errs := Errors{}
	if in.WarningThreshold != nil && *in.WarningThreshold < 1 {
		errs["warningThreshold"] = "enter a valid number (at least 1)"
	}
	if in.ReminderDays != nil && *in.ReminderDays < 1 {
		errs["reminderDays"] = "enter a valid number (at least 1)"
	}
	return domain.SettingsPatch{
		WarningThreshold:     in.WarningThreshold,
		ReminderDays:         in.ReminderDays,
		NotificationsEnabled: in.NotificationsEnabled,
	}, errs
}

// CustomCategoryInput is the raw content of the add-category form.
type CustomCategoryInput struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ValidateCustomCategory checks in against the categories r already knows.
// A blank value is derived from the label. A value that collides with a
// built-in or an existing custom category is reported, not rewritten.
func ValidateCustomCategory(in CustomCategoryInput, r *reference.Resolver) (domain.CustomCategoryDraft, Errors) {
	errs := Errors{}
	label := strings.TrimSpace(in.Label)
	value := Slug(in.Value)
	if value == "" {
		value = Slug(label)
	}
	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = reference.DefaultIcon
	}

	if label == "" {
		errs["label"] = "label is required"
	}
	switch {
	case value == "":
		errs["value"] = "value is required"
	case r.Known(domain.Category(value)):
		errs["value"] = "a category with this value already exists"
	}

	return domain.CustomCategoryDraft{
		Value: domain.Category(value),
		Label: label,
		Icon:  icon,
	}, errs
}

// Slug lowercases s and joins its words with dashes, dropping anything that
// is not a letter or digit.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
