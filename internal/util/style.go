// photosync ⸻ internal/util/style.go
// CLI visual roles and the busy spinner

package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// ╭─ COLOR ROLES ───────────────────────────────╮
var (
	amber  = lipgloss.Color("#FFB000")
	chrome = lipgloss.Color("#C0C0C0")
	rust   = lipgloss.Color("#FF5C00")
	slate  = lipgloss.Color("#667788")
	moss   = lipgloss.Color("#88AA66")
)

// ╭─ STYLE DEFINITIONS ─────────────────────────╮
var (
	LBL = lipgloss.NewStyle().Foreground(amber).Bold(true)
	SUB = lipgloss.NewStyle().Foreground(slate)
	NSH = lipgloss.NewStyle().Foreground(chrome).Bold(true)
	ERR = lipgloss.NewStyle().Foreground(rust).Bold(true)
	SEC = lipgloss.NewStyle().Foreground(moss).Bold(true)
)

var Divider = SUB.Render(strings.Repeat("─", 48))

// ╭─ SPINNER ───────────────────────────────────╮
// runs fn while animating a spinner line, then clears the line
func SpinWhile(label string, fn func() (string, error)) (string, error) {
	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	ticker := time.NewTicker(s.Spinner.FPS)
	defer ticker.Stop()

	done := make(chan struct{})
	result := make(chan struct {
		out string
		err error
	})

	go func() {
		frame := 0
		frames := s.Spinner.Frames
		for {
			select {
			case <-ticker.C:
				fmt.Printf("\r%s %s", NSH.Render(frames[frame]), LBL.Render(label))
				frame = (frame + 1) % len(frames)
			case <-done:
				return
			}
		}
	}()

	go func() {
		out, err := fn()
		result <- struct {
			out string
			err error
		}{out, err}
	}()

	res := <-result
	close(done)
	fmt.Printf("\r%s\r", strings.Repeat(" ", len(label)+8))
	return res.out, res.err
}

func SuccessSymbol() string {
	return SEC.Render("[✓]")
}

func WarningSymbol() string {
	return LBL.Render("[!]")
}

func InfoSymbol() string {
	return NSH.Render("[i]")
}

func ErrorSymbol() string {
	return ERR.Render("[X]")
}
