package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.State {
	case StateHelp:
		body = m.renderHelp()
	case StateComments, StateCompose:
		body = m.renderThread()
	default:
		body = m.renderFeed()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) bodyHeight() int {
	return max(1, m.Height-ChromeHeight)
}

func (m Model) renderHeader() string {
	tabs := make([]string, len(m.Categories))
	for i, c := range m.Categories {
		if i == m.Tab {
			tabs[i] = styles.ActiveTabStyle.Render(c.DisplayName())
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(c.DisplayName())
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	if c, ok := m.currentCategory(); ok {
		s := m.FeedStates[c]
		if len(s.Videos) > 0 {
			if badge := styles.OriginBadge(s.Origin.String()); badge != "" {
				header += " " + badge
			}
		}
	}
	return styles.HeaderStyle.Render(header)
}

func (m Model) renderFeed() string {
	c, ok := m.currentCategory()
	if !ok {
		return styles.DimStyle.Render("No categories configured")
	}
	s := m.FeedStates[c]
	height := m.bodyHeight()

	if len(s.Videos) == 0 {
		switch {
		case s.Busy():
			return RenderSpinner(m.SpinnerFrame) + " Loading " + c.DisplayName() + "..."
		case s.Err != nil:
			return RenderError(s.Err, m.Width)
		default:
			return styles.DimStyle.Render("Nothing here yet. Press r to refresh.")
		}
	}

	cursor := m.Cursors[c]
	start := max(0, cursor-height+1)
	end := min(len(s.Videos), start+height)

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, renderVideoLine(s.Videos[i], i == cursor, m.Width))
	}
	if end == len(s.Videos) && s.Loading {
		lines = append(lines, RenderSpinner(m.SpinnerFrame)+styles.DimStyle.Render(" loading more"))
	}
	return strings.Join(lines, "\n")
}

func renderVideoLine(v domain.Video, selected bool, width int) string {
	heart := styles.UnlikedHeart
	if v.Liked {
		heart = styles.LikedHeart
	}
	if selected {
		heart = styles.UnlikedChar
		if v.Liked {
			heart = styles.LikedChar
		}
	}

	text := fmt.Sprintf("%s %6s  %s  @%s  %s comments",
		heart,
		domain.FormatCount(v.LikeCount),
		v.Title,
		v.AuthorName,
		domain.FormatCount(v.CommentCount),
	)
	text = truncate(text, width-2)

	if selected {
		return styles.SelectedItemStyle.Render(text)
	}
	return styles.NormalItemStyle.Render(text)
}

func (m Model) renderThread() string {
	v := m.OpenVideo
	s := m.ThreadState

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(truncate(v.Title, m.Width-4)))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("@%s  %s likes  %s",
		v.AuthorName, domain.FormatCount(v.LikeCount), likeLabel(v.Liked))))
	b.WriteString("\n\n")

	height := m.bodyHeight() - 3
	if m.State == StateCompose {
		height -= 3
	}

	switch {
	case len(s.Comments) == 0 && s.Loading:
		b.WriteString(RenderSpinner(m.SpinnerFrame) + " Loading comments...")
	case len(s.Comments) == 0 && s.Err != nil:
		b.WriteString(RenderError(s.Err, m.Width))
	case len(s.Comments) == 0:
		b.WriteString(styles.DimStyle.Render("No comments yet. Press i to write one."))
	default:
		// Each comment takes two lines
		per := max(1, height/2)
		start := max(0, m.ThreadScroll-per+1)
		end := min(len(s.Comments), start+per)
		for i := start; i < end; i++ {
			b.WriteString(renderComment(s.Comments[i], i == m.ThreadScroll, m.Width))
			b.WriteString("\n")
		}
		if s.Loading {
			b.WriteString(RenderSpinner(m.SpinnerFrame) + styles.DimStyle.Render(" loading more"))
		}
	}

	if m.State == StateCompose {
		b.WriteString("\n")
		b.WriteString(m.Compose.View(m.Width - 4))
	}
	return b.String()
}

func renderComment(c domain.Comment, selected bool, width int) string {
	name := styles.AccentStyle.Render(c.UserName)
	meta := styles.DimStyle.Render(fmt.Sprintf("  %s %s", styles.LikedChar, domain.FormatCount(c.LikeCount)))
	body := truncate(c.Content, width-4)
	if selected {
		body = styles.SelectedItemStyle.Render(body)
	} else {
		body = styles.NormalItemStyle.Render(body)
	}
	return name + meta + "\n" + body
}

func likeLabel(liked bool) string {
	if liked {
		return styles.LikedHeart + " liked"
	}
	return styles.UnlikedHeart
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, k := range AllHelp() {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
			styles.HelpDescStyle.Render(h.Desc)))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(truncate(m.StatusMsg, m.Width))
		}
		return styles.SuccessStyle.Render(truncate(m.StatusMsg, m.Width))
	}

	var bindings []key.Binding
	switch m.State {
	case StateComments:
		bindings = ThreadHelp()
	case StateCompose:
		bindings = []key.Binding{Keys.Submit, Keys.Back}
	case StateHelp:
		bindings = []key.Binding{Keys.Back}
	default:
		bindings = FeedHelp()
	}
	return renderBindings(bindings)
}

func renderBindings(bindings []key.Binding) string {
	parts := make([]string, len(bindings))
	for i, k := range bindings {
		h := k.Help()
		parts[i] = styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
	}
	return strings.Join(parts, styles.DimStyle.Render("  •  "))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Render(truncate("Error: "+err.Error(), width-2))
}

// truncate shortens s to width runes, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
