package status

import "github.com/vbonduro/prepstock/internal/domain"

// Summarize counts items per category. Only categories that have at least one
// item are reported, in order of first occurrence in items. Callers that need a
// stable presentation order must sort the result themselves.
func Summarize(items []domain.Item, c ItemClassifier) []domain.CategorySummary {
	index := make(map[domain.Category]int)
	summaries := make([]domain.CategorySummary, 0)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(summaries)
			index[item.Category] = i
			summaries = append(summaries, domain.CategorySummary{Category: item.Category})
		}

		s := &summaries[i]
		s.TotalItems++

		switch c.Status(item) {
		case domain.StatusWarning:
			// Expiring soon never includes negative counts, whatever the
			// classifier's cut-off.
			if c.DaysRemaining(item) >= 0 {
				s.ExpiringSoon++
			}
		case domain.StatusDanger:
			s.Expired++
		}
	}

	return summaries
}
