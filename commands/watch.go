package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/penwyp/go-research-monitor/internal/application/details"
	"github.com/penwyp/go-research-monitor/internal/presentation/display"
	"github.com/penwyp/go-research-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-research-monitor/internal/presentation/render"
	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	watchPlain     bool
	watchNoMetrics bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Follow a research until it finishes",
	Long: `Shows the status of one research and refreshes it until it completes or fails.

Metrics are loaded when the view opens and once more when the research finishes.

Keys (interactive terminals only):
  r          refresh now
  q, Esc     quit`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchPlain, "plain", false,
		"Print one line per status change instead of the full-screen view")
	watchCmd.Flags().BoolVar(&watchNoMetrics, "no-metrics", false,
		"Only show the research summary")
}

func runWatch(cmd *cobra.Command, args []string) error {
	id := args[0]
	out := cmd.OutOrStdout()
	interactive := !watchPlain && util.IsTerminal()
	width := util.TerminalWidth(80)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	target := render.NewPanelTarget(fmt.Sprintf("Research #%s", id), width)
	var screen *display.TerminalDisplay
	if interactive {
		screen = display.NewTerminalDisplay(out)
		screen.EnterAlternateScreen()
	}
	printer := &lineWriter{out: out}

	session := details.NewSession(id, newClient(), render.NewRenderer(width), target, details.Options{
		Interval: cfg.Interval,
		OnChange: func() {
			if screen != nil {
				screen.Draw(target.View())
				return
			}
			printer.Print(progressLine(target))
		},
	})
	defer session.Close()

	if err := session.Open(ctx); err != nil {
		if screen != nil {
			screen.ExitAlternateScreen()
		}
		return fmt.Errorf("failed to load research %s: %w", id, err)
	}
	finishedAtOpen := !session.Polling()

	if !watchNoMetrics {
		if err := session.LoadMetrics(ctx); err != nil {
			util.LogWarn("Metrics unavailable", util.F("id", id), util.F("error", err))
		}
	}

	var keyboard *interaction.KeyboardReader
	var keys <-chan interaction.KeyEvent
	if interactive {
		kr, err := interaction.NewKeyboardReader()
		if err != nil {
			util.LogWarn("Keyboard input unavailable", util.F("error", err))
		} else {
			keyboard = kr
			keys = kr.Events()
		}
	}

loop:
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Watch interrupted", util.F("id", id))
			break loop
		case <-session.Done():
			rec := session.Record()
			if !finishedAtOpen && !watchNoMetrics && ctx.Err() == nil && rec != nil && rec.Status.IsTerminal() {
				if err := session.LoadMetrics(ctx); err != nil {
					util.LogWarn("Metrics unavailable", util.F("id", id), util.F("error", err))
				}
			}
			break loop
		case ev := <-keys:
			switch {
			case ev.IsQuit():
				break loop
			case ev.IsRefresh():
				session.RefreshNow()
			}
		}
	}

	session.Close()
	if keyboard != nil {
		if err := keyboard.Close(); err != nil {
			util.LogWarn("Failed to restore terminal", util.F("error", err))
		}
	}
	if screen != nil {
		screen.ExitAlternateScreen()
	}
	fmt.Fprintln(out, target.View())
	return nil
}

// progressLine is the one-line status used when the output is not a terminal.
func progressLine(target *render.PanelTarget) string {
	parts := []string{target.Text(render.SlotStatus)}
	if pct := target.Text(render.SlotProgressPct); pct != "" {
		parts = append(parts, pct)
	}
	if msg := target.Text(render.SlotMessage); msg != "" {
		parts = append(parts, msg)
	}
	return strings.Join(parts, " | ")
}

// lineWriter prints a line only when it differs from the previous one.
type lineWriter struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func (w *lineWriter) Print(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if line == w.last {
		return
	}
	w.last = line
	fmt.Fprintln(w.out, line)
}
