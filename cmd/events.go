package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	eventsVault   string
	eventsPage    int
	eventsPerPage int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List a vault's deposit/withdraw history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if eventsVault == "" {
			return fmt.Errorf("--vault is required")
		}

		ctx, cancel := backendCtx(cmd)
		defer cancel()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		page, err := s.Backend.ListUserEvents(ctx, s.Runtime.Key, eventsVault, eventsPage, eventsPerPage)
		if err != nil {
			return err
		}
		if len(page.Events) == 0 {
			fmt.Println(ui.Meta("No events."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "WHEN", Width: 22},
			{Title: "TYPE", Width: 10},
			{Title: "AMOUNT", Width: 20},
			{Title: "TOKEN", Width: 14},
			{Title: "TX", Width: 14},
		})
		for _, e := range page.Events {
			t.AddRow(ui.Row{e.TsISO, e.EventType, e.AmountHuman, ui.Truncate(e.Token), ui.Truncate(e.TxHash)})
		}
		fmt.Print(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("page %d · %d of %d events", page.Page, len(page.Events), page.Total)))
		return nil
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsVault, "vault", "", "vault address (required)")
	eventsCmd.Flags().IntVar(&eventsPage, "page", 1, "page number")
	eventsCmd.Flags().IntVar(&eventsPerPage, "per-page", 20, "events per page")
}
