package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusSnapshotMsg carries a fresh vault status reading into the watch view.
type StatusSnapshotMsg struct {
	Vault       string
	Chain       string
	Paused      bool
	InPosition  bool
	TickLower   int32
	TickUpper   int32
	Token0      string
	Token1      string
	Holdings    [][2]string // label, formatted amount
	PendingFees [][2]string
	FetchedAt   time.Time
}

// StatusPollMsg updates the polling status bar.
type StatusPollMsg struct {
	Fetching bool
	ErrMsg   string
}

// StatusWatchModel is the Bubble Tea model for the live vault status view.
// Snapshots are pushed in from a polling goroutine via Program.Send.
type StatusWatchModel struct {
	Vault    string
	Chain    string
	Interval time.Duration

	snap     *StatusSnapshotMsg
	status   StatusPollMsg
	frame    int
	Quitting bool
}

type statusTickMsg struct{}

func statusSpinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

func (m StatusWatchModel) Init() tea.Cmd { return statusSpinTick() }

func (m StatusWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}

	case statusTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, statusSpinTick()

	case StatusSnapshotMsg:
		snap := msg
		m.snap = &snap

	case StatusPollMsg:
		m.status = msg
	}

	return m, nil
}

func (m StatusWatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	spin := spinnerFrames[m.frame]

	title := fmt.Sprintf("👁  Vault Status  ·  %s  ·  %s", Truncate(m.Vault), m.Chain)
	sb.WriteString(StyleTitle.Render(title) + "\n")

	// Status bar.
	if m.status.ErrMsg != "" {
		sb.WriteString(StyleError.Render("✗ "+m.status.ErrMsg) + "\n\n")
	} else if m.status.Fetching {
		sb.WriteString(StyleChain.Render(fmt.Sprintf("%s refreshing…", spin)) + "\n\n")
	} else if m.snap != nil {
		sb.WriteString(StyleMeta.Render("  last updated: "+m.snap.FetchedAt.Format("15:04:05")) + "\n\n")
	} else {
		sb.WriteString(StyleMeta.Render("  connecting…") + "\n\n")
	}

	if m.snap == nil {
		sb.WriteString(StyleMeta.Render("  Waiting for first reading…") + "\n")
		sb.WriteString("\n" + watchControls() + "\n")
		return sb.String()
	}

	s := m.snap

	// Position summary.
	var state string
	switch {
	case s.Paused:
		state = StyleError.Render("PAUSED")
	case s.InPosition:
		state = StyleSuccess.Render("IN POSITION")
	default:
		state = StyleWarning.Render("IDLE")
	}
	sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%-16s", "State:")) + state + "\n")
	if s.InPosition {
		ticks := fmt.Sprintf("[%d, %d]", s.TickLower, s.TickUpper)
		sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%-16s", "Range:")) + StyleValue.Render(ticks) + "\n")
	}
	pair := fmt.Sprintf("%s / %s", Truncate(s.Token0), Truncate(s.Token1))
	sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%-16s", "Pair:")) + StyleAddress.Render(pair) + "\n")

	// Holdings.
	if len(s.Holdings) > 0 {
		sb.WriteString("\n" + StyleHeader.Render("Holdings") + "\n")
		for _, h := range s.Holdings {
			sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%-16s", h[0]+":")) + StyleValue.Render(h[1]) + "\n")
		}
	}
	if len(s.PendingFees) > 0 {
		sb.WriteString("\n" + StyleHeader.Render("Pending Fees") + "\n")
		for _, h := range s.PendingFees {
			sb.WriteString("  " + StyleMeta.Render(fmt.Sprintf("%-16s", h[0]+":")) + StyleValue.Render(h[1]) + "\n")
		}
	}

	sb.WriteString("\n" + watchControls() + "\n")
	return sb.String()
}

func watchControls() string {
	return StyleMeta.Render("[ q ]") + StyleMeta.Render(" quit")
}
