package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List the pools known to the backend for the active chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := backendCtx(cmd)
		defer cancel()

		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		pools, err := s.Backend.ListDexPools(ctx, s.Runtime.Key)
		if err != nil {
			return fmt.Errorf("listing pools: %w", err)
		}
		if len(pools) == 0 {
			fmt.Println(ui.Meta("no pools registered for " + string(s.Runtime.Key)))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "POOL", Width: 44},
			{Title: "TOKEN0", Width: 13},
			{Title: "TOKEN1", Width: 13},
			{Title: "FEE", Width: 7},
			{Title: "DEX", Width: 14},
		})
		for _, p := range pools {
			t.AddRow(ui.Row{p.Address, ui.Truncate(p.Token0), ui.Truncate(p.Token1), p.Fee, p.Dex})
		}
		fmt.Print(t.Render())
		return nil
	},
}
