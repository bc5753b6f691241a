package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/styles"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func sampleMatches() []domain.ChunkMatch {
	return []domain.ChunkMatch{
		{ChunkID: "c1", DocumentID: "guide.pdf", Text: "Fill and sign forms.", Distance: 0.12},
		{ChunkID: "c2", DocumentID: "manual.pdf", Text: "Preheat the oven.", Distance: 0.34},
		{ChunkID: "c3", DocumentID: "notes.txt", Text: "Export the report.", Distance: 0.56},
	}
}

func TestNewResultList(t *testing.T) {
	s := styles.DefaultStyles()
	list := NewResultList(s)

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.True(t, list.IsEmpty())
}

func TestNewResultList_NilStyles(t *testing.T) {
	list := NewResultList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

func TestResultList_Init(t *testing.T) {
	list := NewResultList(nil)

	cmd := list.Init()

	assert.Nil(t, cmd)
}

func TestResultList_SetMatches(t *testing.T) {
	list := NewResultList(nil)
	matches := sampleMatches()

	list.SetMatches(matches)

	assert.Equal(t, 3, list.Count())
	assert.False(t, list.IsEmpty())
	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Matches(t *testing.T) {
	list := NewResultList(nil)
	matches := sampleMatches()
	list.SetMatches(matches)

	got := list.Matches()

	assert.Equal(t, matches, got)
}

func TestResultList_Selected(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	assert.Equal(t, 0, list.Selected())

	list.SetSelected(1)
	assert.Equal(t, 1, list.Selected())
}

func TestResultList_SetSelected_Valid(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	list.SetSelected(2)

	assert.Equal(t, 2, list.Selected())
}

func TestResultList_SetSelected_OutOfBounds(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	list.SetSelected(99)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestResultList_SetSelected_Negative(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	list.SetSelected(-1)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestResultList_SelectedMatch(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	match := list.SelectedMatch()

	require.NotNil(t, match)
	assert.Equal(t, "guide.pdf", match.DocumentID)
}

func TestResultList_SelectedMatch_Empty(t *testing.T) {
	list := NewResultList(nil)

	match := list.SelectedMatch()

	assert.Nil(t, match)
}

func TestResultList_MoveUp(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())
	list.SetSelected(1)

	list.MoveUp()

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_MoveUp_AtTop(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	list.MoveUp()

	assert.Equal(t, 0, list.Selected()) // Stays at 0
}

func TestResultList_MoveDown(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	list.MoveDown()

	assert.Equal(t, 1, list.Selected())
}

func TestResultList_MoveDown_AtBottom(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())
	list.SetSelected(2)

	list.MoveDown()

	assert.Equal(t, 2, list.Selected()) // Stays at 2
}

func TestResultList_Update_KeyUp(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyUp}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Update_KeyDown(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, list.Selected())
}

func TestResultList_Update_KeyK(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	list.Update(msg)

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Update_KeyJ(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	list.Update(msg)

	assert.Equal(t, 1, list.Selected())
}

func TestResultList_View_Empty(t *testing.T) {
	list := NewResultList(nil)

	view := list.View()

	assert.Contains(t, view, "No results")
}

func TestResultList_View_WithMatches(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	view := list.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "guide.pdf")
	assert.Contains(t, view, "0.1200")
}

func TestResultList_View_SelectedIndicator(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches(sampleMatches())

	view := list.View()

	assert.Contains(t, view, ">") // Selected indicator
}

func TestResultList_SetDimensions(t *testing.T) {
	list := NewResultList(nil)

	list.SetDimensions(100, 20)

	assert.Equal(t, 100, list.Width())
	assert.Equal(t, 20, list.Height())
}

func TestResultList_Width(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 80, list.Width()) // Default
}

func TestResultList_Height(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 10, list.Height()) // Default
}

func TestResultList_Count(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 0, list.Count())

	list.SetMatches(sampleMatches())
	assert.Equal(t, 3, list.Count())
}

func TestResultList_IsEmpty(t *testing.T) {
	list := NewResultList(nil)

	assert.True(t, list.IsEmpty())

	list.SetMatches(sampleMatches())
	assert.False(t, list.IsEmpty())
}

func TestResultList_View_UnknownDocument(t *testing.T) {
	list := NewResultList(nil)
	list.SetMatches([]domain.ChunkMatch{
		{ChunkID: "c1", DocumentID: "", Text: "orphan text", Distance: 0.5},
	})

	view := list.View()

	assert.Contains(t, view, "(unknown document)")
}

func TestResultList_View_LongPreview(t *testing.T) {
	list := NewResultList(nil)
	longText := "This is a very long chunk of stored text that should be truncated when displayed in the list view because it exceeds the component width"
	list.SetMatches([]domain.ChunkMatch{
		{ChunkID: "c1", DocumentID: "guide.pdf", Text: longText, Distance: 0.5},
	})

	view := list.View()

	// Should be truncated with ellipsis
	assert.Contains(t, view, "...")
}
