package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ComposeBox is a single-line comment editor
type ComposeBox struct {
	visible bool
	input   textinput.Model
}

// NewComposeBox creates a new compose box
func NewComposeBox() ComposeBox {
	ti := textinput.New()
	ti.Placeholder = "Add a comment..."
	ti.CharLimit = 500
	ti.Prompt = "> "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return ComposeBox{
		input: ti,
	}
}

// Show clears and focuses the box
func (c *ComposeBox) Show() tea.Cmd {
	c.visible = true
	c.input.SetValue("")
	return c.input.Focus()
}

// Hide dismisses the box
func (c *ComposeBox) Hide() {
	c.visible = false
	c.input.Blur()
}

// IsVisible returns whether the box is shown
func (c ComposeBox) IsVisible() bool {
	return c.visible
}

// Value returns the current text
func (c ComposeBox) Value() string {
	return c.input.Value()
}

// IsBlank reports whether the text has no visible characters
func (c ComposeBox) IsBlank() bool {
	return strings.TrimSpace(c.input.Value()) == ""
}

// SetWidth sets the input width
func (c *ComposeBox) SetWidth(w int) {
	c.input.Width = max(10, w)
}

// Update handles input events, returns (box, cmd, submitted). Esc hides the box.
func (c ComposeBox) Update(msg tea.Msg) (ComposeBox, tea.Cmd, bool) {
	if !c.visible {
		return c, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return c, nil, true
		case "esc":
			c.Hide()
			return c, nil, false
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd, false
}

// View renders the compose box
func (c ComposeBox) View(width int) string {
	if !c.visible {
		return ""
	}
	return styles.ComposeStyle.Width(max(10, width)).Render(c.input.View())
}
