// Package filter narrows an item collection down by name, category, urgency
// and expiration window.
package filter

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/status"
)

// All is the wildcard value for Category, Status and Days.
const All = "all"

// Bucket is a relative expiration window.
type Bucket string

const (
	BucketAll     Bucket = All
	BucketToday   Bucket = "today"
	BucketWeek    Bucket = "week"
	BucketMonth   Bucket = "month"
	BucketExpired Bucket = "expired"
)

// Buckets lists the recognized windows in display order.
var Buckets = []Bucket{BucketAll, BucketToday, BucketWeek, BucketMonth, BucketExpired}

// Query holds the active predicates. Empty fields behave like All.
type Query struct {
	Text     string
	Category domain.Category
	Status   domain.Status
	Days     Bucket
}

// Result is a filtered view. Total is the size of the unfiltered collection.
type Result struct {
	Items []domain.Item
	Total int
}

// Empty reports whether there were no items at all.
func (r Result) Empty() bool { return r.Total == 0 }

// NoMatches reports whether items exist but none satisfied the query.
func (r Result) NoMatches() bool { return r.Total > 0 && len(r.Items) == 0 }

// Apply returns the items that satisfy every non-wildcard predicate of q, in
// their original order.
func Apply(items []domain.Item, q Query, c status.ItemClassifier) Result {
	fold := cases.Fold()
	needle := fold.String(q.Text)

	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(fold.String(item.Name), needle) {
			continue
		}
		if !wildcard(string(q.Category)) && item.Category != q.Category {
			continue
		}
		if !wildcard(string(q.Status)) && c.Status(item) != q.Status {
			continue
		}
		if !wildcard(string(q.Days)) && !q.Days.Contains(c.DaysRemaining(item)) {
			continue
		}
		out = append(out, item)
	}

	return Result{Items: out, Total: len(items)}
}

// Contains reports whether a days-remaining count falls inside the window.
// Unrecognized buckets contain nothing.
func (b Bucket) Contains(days int) bool {
	switch b {
	case BucketAll, "":
		return true
	case BucketToday:
		return days == 0
	case BucketWeek:
		return days > 0 && days <= 7
	case BucketMonth:
		return days > 0 && days <= 30
	case BucketExpired:
		return days < 0
	default:
		return false
	}
}

func wildcard(v string) bool {
	return v == "" || v == All
}

// ParseBucket validates a window name. The empty string maps to BucketAll.
func ParseBucket(s string) (Bucket, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BucketAll, nil
	}
	for _, b := range Buckets {
		if Bucket(s) == b {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown days filter %q", s)
}

// ParseStatus validates a status filter. The empty string and "all" map to
// the wildcard.
func ParseStatus(s string) (domain.Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if wildcard(s) {
		return All, nil
	}
	if !status.Valid(domain.Status(s)) {
		return "", fmt.Errorf("unknown status filter %q", s)
	}
	return domain.Status(s), nil
}
