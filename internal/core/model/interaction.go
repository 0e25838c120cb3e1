package model

// Layout styles of the terminal dashboard.
const (
	LayoutFull = iota
	LayoutMinimal
	layoutCount
)

// NextLayout cycles through the available layout styles.
func NextLayout(style int) int {
	return (style + 1) % layoutCount
}

// ParseLayout maps a flag value to a layout style.
func ParseLayout(name string) int {
	if name == "minimal" {
		return LayoutMinimal
	}
	return LayoutFull
}

// DisplayMode is the screen currently drawn by the terminal dashboard.
type DisplayMode int

const (
	ModeNormal DisplayMode = iota
	ModeLoading
	ModeHelp
)

// InteractionState holds keyboard driven UI state.
type InteractionState struct {
	IsPaused       bool
	ShowHelp       bool
	LayoutStyle    int
	SortAscending  bool
	ForceRefresh   bool
	IsLoading      bool
	LoadingMessage string
	StatusMessage  string
}

// LayoutParam carries display settings into layout strategies.
type LayoutParam struct {
	Timezone   string
	TimeFormat string
	Width      int
	Groups     []ChartGroup
	Paused     bool
	Ascending  bool
	Status     string
}
