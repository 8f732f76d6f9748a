package explore

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorPrimary   = lipgloss.Color("#11C3DB") // cyan
	colorSecondary = lipgloss.Color("10")      // green
	colorMatch     = lipgloss.Color("#D4AF37") // gold
	colorMuted     = lipgloss.Color("8")       // gray
	colorHighlight = lipgloss.Color("15")      // white
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)
)

var (
	facetSelectedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	facetCountStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
	needleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorMatch)
)

var (
	statusBarStyle = lipgloss.NewStyle().Foreground(colorMuted)
	helpKeyStyle   = lipgloss.NewStyle().Foreground(colorPrimary)
	helpDescStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)
