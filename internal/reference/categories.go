// Package reference holds the static lookup tables the presentation layers
// read: category labels and icons, and the emergency phone directory.
package reference

import "github.com/vbonduro/prepstock/internal/domain"

// DefaultIcon is returned for categories without a known icon.
const DefaultIcon = "package"

type categoryInfo struct {
	label string
	icon  string
}

var builtin = map[domain.Category]categoryInfo{
	domain.CategoryFood:          {"Food", "sandwich"},
	domain.CategoryWater:         {"Water", "droplets"},
	domain.CategoryMedical:       {"Medical", "shield-plus"},
	domain.CategoryDocuments:     {"Documents", "file-text"},
	domain.CategoryTools:         {"Tools", "wrench"},
	domain.CategoryCommunication: {"Communication", "phone"},
	domain.CategoryClothing:      {"Clothing", "shirt"},
	domain.CategoryOther:         {"Other", "package"},
}

// Option is a selectable category.
type Option struct {
	Value  domain.Category `json:"value"`
	Label  string          `json:"label"`
	Icon   string          `json:"icon"`
	Custom bool            `json:"custom"`
}

// Resolver resolves labels and icons against the built-in table and a set of
// custom categories. Lookups never fail: unknown values fall back to the raw
// value and DefaultIcon.
type Resolver struct {
	custom []domain.CustomCategory
}

func NewResolver(custom []domain.CustomCategory) *Resolver {
	return &Resolver{custom: custom}
}

func (r *Resolver) Label(c domain.Category) string {
	if info, ok := builtin[c]; ok {
		return info.label
	}
	if cc, ok := r.lookup(c); ok && cc.Label != "" {
		return cc.Label
	}
	return string(c)
}

func (r *Resolver) Icon(c domain.Category) string {
	if info, ok := builtin[c]; ok {
		return info.icon
	}
	if cc, ok := r.lookup(c); ok && cc.Icon != "" {
		return cc.Icon
	}
	return DefaultIcon
}

// Options lists the built-in categories followed by the custom ones.
func (r *Resolver) Options() []Option {
	opts := make([]Option, 0, len(domain.BuiltinCategories)+len(r.custom))
	for _, c := range domain.BuiltinCategories {
		opts = append(opts, Option{Value: c, Label: builtin[c].label, Icon: builtin[c].icon})
	}
	for _, cc := range r.custom {
		opts = append(opts, Option{Value: cc.Value, Label: r.Label(cc.Value), Icon: r.Icon(cc.Value), Custom: true})
	}
	return opts
}

// Known reports whether c is built in or registered as a custom category.
func (r *Resolver) Known(c domain.Category) bool {
	if _, ok := builtin[c]; ok {
		return true
	}
	_, ok := r.lookup(c)
	return ok
}

func (r *Resolver) lookup(c domain.Category) (domain.CustomCategory, bool) {
	for _, cc := range r.custom {
		if cc.Value == c {
			return cc, true
		}
	}
	return domain.CustomCategory{}, false
}
