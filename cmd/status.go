package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/backend"
	"github.com/openvaults/vaultctl/internal/config"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	statusVault    string
	statusWatch    bool
	statusInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend's live view of a vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusVault == "" {
			return fmt.Errorf("--vault is required")
		}

		ctx, cancel := backendCtx(cmd)
		defer cancel()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		if statusWatch {
			return watchStatus(cmd.Context(), s)
		}

		st, err := s.Backend.GetVaultStatus(ctx, s.Runtime.Key, statusVault)
		if err != nil {
			return err
		}
		printStatus(st)
		return nil
	},
}

func printStatus(st *backend.VaultStatus) {
	rangeState := ui.StyleWarning.Render("OUT OF RANGE")
	if st.InRange {
		rangeState = ui.StyleSuccess.Render("IN RANGE")
	}
	pairs := [][2]string{
		{"Pool", ui.Addr(st.Pool)},
		{"Pair", ui.Truncate(st.Token0) + " / " + ui.Truncate(st.Token1)},
		{"Price", st.Price},
		{"Current tick", fmt.Sprintf("%d", st.CurrentTick)},
		{"Range", fmt.Sprintf("[%d, %d] %s", st.TickLower, st.TickUpper, rangeState)},
		{"Fees owed", st.UncollectedFee0 + " / " + st.UncollectedFee1},
		{"Staked", fmt.Sprintf("%t", st.Staked)},
	}
	fmt.Println(ui.KeyValueBlock("Vault "+ui.Truncate(st.Vault)+" · "+st.Chain, pairs))

	if len(st.Holdings) > 0 {
		t := ui.NewTable([]ui.Column{
			{Title: "TOKEN", Width: 10},
			{Title: "AMOUNT", Width: 24},
			{Title: "VALUE (USD)", Width: 16},
		})
		for _, h := range st.Holdings {
			t.AddRow(ui.Row{h.Symbol, h.AmountHuman, h.ValueUSD})
		}
		fmt.Print(t.Render())
	}
}

// watchStatus polls the backend and streams snapshots into the TUI.
func watchStatus(ctx context.Context, s *session) error {
	model := ui.StatusWatchModel{
		Vault:    statusVault,
		Chain:    string(s.Runtime.Key),
		Interval: statusInterval,
	}
	prog := tea.NewProgram(model)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			prog.Send(ui.StatusPollMsg{Fetching: true})
			callCtx, callCancel := context.WithTimeout(ctx, config.BackendTimeout)
			st, err := s.Backend.GetVaultStatus(callCtx, s.Runtime.Key, statusVault)
			callCancel()
			if err != nil {
				prog.Send(ui.StatusPollMsg{ErrMsg: err.Error()})
			} else {
				prog.Send(snapshotFromStatus(st))
				prog.Send(ui.StatusPollMsg{})
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	_, err := prog.Run()
	return err
}

func snapshotFromStatus(st *backend.VaultStatus) ui.StatusSnapshotMsg {
	snap := ui.StatusSnapshotMsg{
		Vault:      st.Vault,
		Chain:      st.Chain,
		InPosition: st.TickLower != st.TickUpper,
		TickLower:  st.TickLower,
		TickUpper:  st.TickUpper,
		Token0:     st.Token0,
		Token1:     st.Token1,
		FetchedAt:  time.Now(),
	}
	for _, h := range st.Holdings {
		snap.Holdings = append(snap.Holdings, [2]string{h.Symbol, h.AmountHuman + "  ($" + h.ValueUSD + ")"})
	}
	if st.UncollectedFee0 != "" || st.UncollectedFee1 != "" {
		snap.PendingFees = append(snap.PendingFees,
			[2]string{"fee0", st.UncollectedFee0},
			[2]string{"fee1", st.UncollectedFee1},
		)
	}
	return snap
}

func init() {
	statusCmd.Flags().StringVar(&statusVault, "vault", "", "vault address (required)")
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "live-updating view")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 10*time.Second, "poll interval for --watch")
}
