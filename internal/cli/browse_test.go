package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m browseModel, msgs ...tea.Msg) browseModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(browseModel)
		require.True(t, ok)
	}
	return m
}

func TestBrowse_EmptyInventory(t *testing.T) {
	h := newHarness(t)
	m := newBrowseModel(h.svc, NewTheme("mono"))

	assert.Equal(t, 0, m.total)
	assert.Contains(t, m.View(), "No items yet.")
}

func TestBrowse_CyclesFilters(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Water Storage", domain.CategoryWater, -5)
	h.add(t, "Canned Food", domain.CategoryFood, 10)
	h.add(t, "First Aid Kit", domain.CategoryMedical, 400)

	m := newBrowseModel(h.svc, NewTheme("mono"))
	assert.Equal(t, 3, m.matched)
	assert.Contains(t, m.View(), "Canned Food")

	m = press(t, m, runes("s"))
	assert.Equal(t, domain.StatusSafe, m.query.Status)
	assert.Equal(t, 1, m.matched)

	m = press(t, m, runes("s"), runes("s"))
	assert.Equal(t, domain.StatusDanger, m.query.Status)
	assert.Equal(t, 1, m.matched)
	assert.Contains(t, m.View(), "Water Storage")

	m = press(t, m, runes("s"))
	assert.Equal(t, domain.Status(filter.All), m.query.Status)

	m = press(t, m, runes("c"))
	assert.Equal(t, m.categories[1], m.query.Category)

	m = press(t, m, runes("r"), runes("d"))
	assert.Equal(t, filter.BucketToday, m.query.Days)
	assert.Equal(t, 0, m.matched)
	assert.Contains(t, m.View(), "No items match these filters")

	m = press(t, m, runes("r"))
	assert.Equal(t, filter.BucketAll, m.query.Days)
	assert.Equal(t, 3, m.matched)
}

func TestBrowse_Search(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Water Storage", domain.CategoryWater, 100)
	h.add(t, "Canned Food", domain.CategoryFood, 100)

	m := newBrowseModel(h.svc, NewTheme("mono"))
	m = press(t, m, runes("/"))
	require.True(t, m.searching)

	// filter keys are plain text while searching
	m = press(t, m, runes("wa"), runes("s"))
	assert.Equal(t, "was", m.query.Text)
	assert.Equal(t, domain.Status(filter.All), m.query.Status)
	assert.Equal(t, 0, m.matched)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "wa", m.query.Text)
	assert.Equal(t, 1, m.matched)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	assert.Equal(t, "wa", m.query.Text)
	assert.Contains(t, m.View(), "Water Storage")

	m = press(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.query.Text)
	assert.Equal(t, 2, m.matched)
}

func TestBrowse_Quit(t *testing.T) {
	h := newHarness(t)
	m := newBrowseModel(h.svc, NewTheme("mono"))

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
