package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestDrawFirstFrameClearsScreen(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)

	td.Draw("status: pending\nprogress: 0%\n")

	got := out.String()
	assert.True(t, strings.HasPrefix(got, util.ClearScreen+util.MoveCursorHome))
	assert.Contains(t, got, "status: pending\r\n")
	assert.Contains(t, got, "progress: 0%\r\n")
}

func TestDrawOnlyRewritesChangedLines(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	td.Draw("status: pending\nprogress: 0%")
	out.Reset()

	td.Draw("status: pending\nprogress: 40%")

	got := out.String()
	assert.NotContains(t, got, util.ClearScreen)
	assert.NotContains(t, got, "status: pending")
	assert.Contains(t, got, "progress: 40%"+util.ClearLineFromCursor)
	assert.True(t, strings.HasSuffix(got, util.ClearToEnd))
}

func TestDrawWithoutSmartRender(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	td.SetSmartRender(false)
	td.Draw("a")
	out.Reset()

	td.Draw("a")
	assert.True(t, strings.HasPrefix(out.String(), util.ClearScreen))
	assert.Contains(t, out.String(), "a\r\n")
}

func TestAlternateScreen(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)

	td.ExitAlternateScreen()
	assert.Empty(t, out.String(), "exit without enter is a no-op")

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	assert.Equal(t, 1, strings.Count(out.String(), util.EnterAltScreen))
	assert.Contains(t, out.String(), util.HideCursor)

	td.ExitAlternateScreen()
	assert.Contains(t, out.String(), util.ExitAltScreen)
	assert.Contains(t, out.String(), util.ShowCursor)
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	td.Print("done\n\n")
	assert.Equal(t, "done\n", out.String())
}
