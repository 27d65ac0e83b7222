package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ReelPink   = lipgloss.Color("#FE2C55")
	ReelCyan   = lipgloss.Color("#25F4EE")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Amber      = lipgloss.Color("#F59E0B")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ReelPink)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(ReelPink).
			Bold(true).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 2)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Like indicators
const (
	LikedChar   = "♥"
	UnlikedChar = "♡"
)

var (
	LikedHeart   = AccentStyle.Render(LikedChar)
	UnlikedHeart = DimStyle.Render(UnlikedChar)
)

// Panel and chrome styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	ComposeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ReelPink).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ReelCyan)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ReelPink)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// OriginBadge renders where the visible page came from.
func OriginBadge(origin string) string {
	switch origin {
	case "cache":
		return DimStyle.Render("[cached]")
	case "fallback":
		return WarnStyle.Render("[offline]")
	default:
		return ""
	}
}
