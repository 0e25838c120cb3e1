package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/layout"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// DisplayConfig holds settings for terminal rendering
type DisplayConfig struct {
	Timezone   string
	TimeFormat string
	Width      int
	Groups     []model.ChartGroup
}

type TerminalDisplay struct {
	config            *DisplayConfig
	out               io.Writer
	inAlternateScreen bool
	lastLayoutStyle   int
	isFirstRender     bool
	currentMode       model.DisplayMode
}

// NewTerminalDisplay creates a display writing to stdout
func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	return NewTerminalDisplayTo(config, os.Stdout)
}

// NewTerminalDisplayTo creates a display writing to out
func NewTerminalDisplayTo(config *DisplayConfig, out io.Writer) *TerminalDisplay {
	if config == nil {
		config = &DisplayConfig{}
	}
	return &TerminalDisplay{
		config:        config,
		out:           out,
		isFirstRender: true,
		currentMode:   model.ModeNormal,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen+util.ClearScreen+util.ClearScrollback+
		util.ResetScrollRegion+util.HideCursor+util.MoveCursorHome)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// ClearScreen clears the alternate screen buffer
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome)
	}
}

// determineDisplayMode determines the current display mode based on interaction state
func (td *TerminalDisplay) determineDisplayMode(state model.InteractionState) model.DisplayMode {
	// Priority order: Help > Loading > Normal
	if state.ShowHelp {
		return model.ModeHelp
	}
	if state.IsLoading {
		return model.ModeLoading
	}
	return model.ModeNormal
}

// RenderWithState draws one frame. snap may be nil before the first refresh.
func (td *TerminalDisplay) RenderWithState(snap *model.Snapshot, state model.InteractionState) {
	mode := td.determineDisplayMode(state)

	var frame bytes.Buffer
	switch {
	case td.isFirstRender || mode != td.currentMode || td.lastLayoutStyle != state.LayoutStyle:
		frame.WriteString(util.ClearScreen + util.MoveCursorHome)
		td.isFirstRender = false
		td.currentMode = mode
		td.lastLayoutStyle = state.LayoutStyle
	default:
		// Redraw in place to avoid flicker
		frame.WriteString(util.MoveCursorHome)
	}

	switch mode {
	case model.ModeHelp:
		td.renderHelp(&frame)
	case model.ModeLoading:
		td.renderLoadingScreen(&frame, state.LoadingMessage)
	default:
		td.renderDashboard(&frame, snap, state)
	}

	// Clear whatever the previous, possibly longer, frame left below
	frame.WriteString("\033[J")
	_, _ = td.out.Write(frame.Bytes())
}

func (td *TerminalDisplay) renderDashboard(w io.Writer, snap *model.Snapshot, state model.InteractionState) {
	if snap == nil {
		td.renderLoadingScreen(w, "Waiting for the first refresh...")
		return
	}

	param := model.LayoutParam{
		Timezone:   td.config.Timezone,
		TimeFormat: td.config.TimeFormat,
		Width:      td.config.Width,
		Groups:     td.config.Groups,
		Paused:     state.IsPaused,
		Ascending:  state.SortAscending,
		Status:     state.StatusMessage,
	}
	layout.GetLayoutStrategy(state.LayoutStyle).Render(w, snap, param)
}

func (td *TerminalDisplay) renderLoadingScreen(w io.Writer, message string) {
	if message == "" {
		message = "Loading..."
	}
	width := td.width()
	fmt.Fprintln(w)
	fmt.Fprintln(w, util.FormatHeaderTitle("SENSOR DASHBOARD"))
	fmt.Fprintln(w, strings.Repeat("═", width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, util.CenterText("⏳ "+message, width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, util.CenterText("Press 'q' to quit", width))
}

func (td *TerminalDisplay) renderHelp(w io.Writer) {
	width := td.width()
	fmt.Fprintln(w, "Sensor Dashboard - Help")
	fmt.Fprintln(w, strings.Repeat("═", width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keyboard Shortcuts:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  q/Ctrl+C  - Quit the program")
	fmt.Fprintln(w, "  r         - Force refresh, bypassing the fetch cache")
	fmt.Fprintln(w, "  p         - Pause/unpause auto-refresh")
	fmt.Fprintln(w, "  l         - Change layout style (Full → Minimal)")
	fmt.Fprintln(w, "  s         - Toggle sort order of the latest readings")
	fmt.Fprintln(w, "  h         - Show this help")
	fmt.Fprintln(w, "  ESC       - Close help (or quit if nothing is open)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout Styles:")
	fmt.Fprintln(w, "  Full Dashboard - Per group latest value, range and sparkline")
	fmt.Fprintln(w, "  Minimal        - One line with the latest value of each group")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "  ✓ source delivered data this cycle")
	fmt.Fprintln(w, "  ✗ source failed; the dashboard shows the other source only")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", width))
	fmt.Fprintln(w, "Press 'h' to return...")
}

func (td *TerminalDisplay) width() int {
	return (layout.Sizer{}).ClampWidth(td.config.Width)
}
