// Package status derives urgency from expiration dates and rolls it up per
// category.
package status

import (
	"fmt"
	"time"

	"github.com/vbonduro/prepstock/internal/domain"
)

const day = 24 * time.Hour

// DaysRemaining returns the number of calendar days from now's date to the
// expiration date, both taken in now's location. Time of day is ignored, so
// an item expiring today is 0 and one that expired yesterday is -1.
func DaysRemaining(expiration, now time.Time) int {
	return int(calendarDay(expiration.In(now.Location())).Sub(calendarDay(now)) / day)
}

// calendarDay maps t's date to UTC midnight so DST shifts never change the
// day count.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify maps an expiration date to an urgency level. The danger check runs
// first so a threshold of 0 still reports expired items as danger.
func Classify(expiration, now time.Time, thresholdDays int) domain.Status {
	days := DaysRemaining(expiration, now)
	switch {
	case days < 0:
		return domain.StatusDanger
	case days <= thresholdDays:
		return domain.StatusWarning
	default:
		return domain.StatusSafe
	}
}

// ItemClassifier is what the aggregator and the filter engine need to know
// about an item's urgency.
type ItemClassifier interface {
	Status(item domain.Item) domain.Status
	DaysRemaining(item domain.Item) int
}

// Classifier binds a warning threshold and an evaluation instant.
type Classifier struct {
	Threshold int
	Now       time.Time
}

func (c Classifier) Status(item domain.Item) domain.Status {
	return Classify(item.ExpirationDate, c.Now, c.Threshold)
}

func (c Classifier) DaysRemaining(item domain.Item) int {
	return DaysRemaining(item.ExpirationDate, c.Now)
}

// DaysLabel renders a days-remaining count for display.
func DaysLabel(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "1 day left"
	case days > 1:
		return fmt.Sprintf("%d days left", days)
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

// Valid reports whether s names one of the three urgency levels.
func Valid(s domain.Status) bool {
	switch s {
	case domain.StatusSafe, domain.StatusWarning, domain.StatusDanger:
		return true
	}
	return false
}
