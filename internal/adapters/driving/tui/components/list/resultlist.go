// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/styles"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// ResultList displays search matches in a navigable list.
type ResultList struct {
	matches  []domain.ChunkMatch
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		matches:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.matches)*2+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.matches)))
	lines = append(lines, header, "")

	// Calculate visible range based on height.
	// Each match takes 2 lines (document + preview), plus a margin line.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.matches) {
		end = len(r.matches)
	}

	for i := start; i < end; i++ {
		line := r.renderMatch(i, &r.matches[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderMatch formats a single match with preview text.
func (r *ResultList) renderMatch(index int, match *domain.ChunkMatch) string {
	// Indicator for selected item
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := match.DocumentID
	if title == "" {
		title = "(unknown document)"
	}

	// Truncate title if too long
	maxTitleLen := r.width - 20
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	distance := fmt.Sprintf("%.4f", match.Distance)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, distance))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Muted.Render(distance)
	}

	// Preview text from the stored chunk
	preview := strings.ReplaceAll(match.Text, "\n", " ")

	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := r.styles.Muted.Render("    " + preview)

	return titleLine + "\n" + previewLine
}

// SetMatches updates the result list.
func (r *ResultList) SetMatches(matches []domain.ChunkMatch) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *ResultList) Matches() []domain.ChunkMatch {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.matches) {
		r.selected = index
	}
}

// SelectedMatch returns the currently selected match, or nil if none.
func (r *ResultList) SelectedMatch() *domain.ChunkMatch {
	if len(r.matches) == 0 || r.selected < 0 || r.selected >= len(r.matches) {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of matches.
func (r *ResultList) Count() int {
	return len(r.matches)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.matches) == 0
}
