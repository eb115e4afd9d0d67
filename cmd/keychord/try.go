package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/adapter/terminal"
	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/manager"
)

// historySize is the number of execution lines kept on screen.
const historySize = 20

var flagTryCtx []string

var tryCmd = &cobra.Command{
	Use:   "try <file>",
	Short: "Press keys in the terminal and watch shortcuts trigger",
	Long: `Open a full screen session that feeds terminal key and mouse events into
the file's shortcuts and shows the chain being typed with the most recent
command executions. Press Ctrl+C to quit.

Terminals report keys as presses only, so every key is released right
after it is pressed and modifiers are reported with the key they modify.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTry(cmd.ErrOrStderr(), args[0], flagTryCtx)
	},
}

func init() {
	tryCmd.Flags().StringArrayVarP(&flagTryCtx, "context", "c", nil, "Context entry (name or name=value), can be repeated")
}

// history is the list of lines shown below the chain. Executions can come
// from release timers, so it is guarded.
type history struct {
	mu    sync.Mutex
	lines []string
}

func (h *history) add(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, fmt.Sprintf(format, args...))
	if len(h.lines) > historySize {
		h.lines = h.lines[len(h.lines)-historySize:]
	}
}

func (h *history) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

func runTry(stderr io.Writer, path string, ctxEntries []string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	h := &history{}
	wake := func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort redraw
	}
	so := sessionOptions{
		Exec: func(ctx command.ExecuteContext) {
			dir := "up  "
			if ctx.IsKeydown {
				dir = "down"
			}
			h.add("%s %s  (%v)", dir, ctx.Command.Name, ctx.Shortcut)
			wake()
		},
		OnError: func(_ *manager.Manager, err error, _ any) {
			h.add("error: %v", err)
			wake()
		},
	}
	if len(ctxEntries) > 0 {
		so.Context = parseContext(ctxEntries)
	}
	s, err := openSession(path, stderr, so)
	if err != nil {
		return err
	}
	defer s.Close()
	for _, err := range splitErrors(s.loadErr) {
		h.add("skipped: %s", describe(err))
	}
	// The log would write over the screen.
	s.log.Disable()

	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	adapter := terminal.New()
	for {
		drawTry(screen, s.m, h)
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if id, _ := terminal.KeyID(ev); id != "" {
				h.add("key  %s", strings.TrimSpace(ev.Name()))
			}
		case *tcell.EventResize:
			screen.Sync()
			continue
		case *tcell.EventInterrupt:
			continue
		}
		adapter.Feed(s.m, ev)
	}
}

func drawTry(screen tcell.Screen, m *manager.Manager, h *history) {
	screen.Clear()
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	st := m.State()
	y := 0
	drawText(screen, 0, y, bold, "keychord try  (Ctrl+C to quit)")
	y += 2
	drawText(screen, 0, y, tcell.StyleDefault, "chain: ["+strings.TrimSpace(st.Chain.String())+"]")
	y++
	if st.IsAwaitingKeyup {
		drawText(screen, 0, y, dim, "awaiting keyup")
	}
	y += 2
	for _, line := range h.snapshot() {
		drawText(screen, 0, y, tcell.StyleDefault, line)
		y++
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	width, height := screen.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
