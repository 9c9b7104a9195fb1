package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/penwyp/go-research-monitor/internal/util"
)

// TerminalDisplay redraws a full-screen view in place.
type TerminalDisplay struct {
	mu                sync.Mutex
	out               io.Writer
	inAlternateScreen bool
	smartRender       bool
	isFirstRender     bool
	previousScreen    []string
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		out:           out,
		smartRender:   true,
		isFirstRender: true,
	}
}

// SetSmartRender toggles differential redraws. With it off every frame clears the screen.
func (td *TerminalDisplay) SetSmartRender(enabled bool) {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.smartRender = enabled
}

// EnterAlternateScreen switches to the alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen, util.ClearScreen, util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, util.ExitAltScreen)
	td.inAlternateScreen = false
	td.previousScreen = nil
}

// Draw replaces the screen content. After the first frame only lines that changed are
// rewritten, and leftovers from a taller previous frame are cleared.
func (td *TerminalDisplay) Draw(content string) {
	td.mu.Lock()
	defer td.mu.Unlock()

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	var b strings.Builder
	if td.isFirstRender || !td.smartRender {
		b.WriteString(util.ClearScreen)
		b.WriteString(util.MoveCursorHome)
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\r\n")
		}
		td.isFirstRender = false
	} else {
		b.WriteString(util.MoveCursorHome)
		for i, line := range lines {
			if i < len(td.previousScreen) && td.previousScreen[i] == line {
				b.WriteString("\r\n")
				continue
			}
			b.WriteString(line)
			b.WriteString(util.ClearLineFromCursor)
			b.WriteString("\r\n")
		}
		b.WriteString(util.ClearToEnd)
	}

	td.previousScreen = lines
	fmt.Fprint(td.out, b.String())
}

// Print writes content below the current frame without redrawing, for non-interactive output.
func (td *TerminalDisplay) Print(content string) {
	td.mu.Lock()
	defer td.mu.Unlock()
	fmt.Fprintln(td.out, strings.TrimRight(content, "\n"))
}
