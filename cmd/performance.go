package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
)

var perfVault string

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Show a vault's accounting view",
	RunE: func(cmd *cobra.Command, args []string) error {
		if perfVault == "" {
			return fmt.Errorf("--vault is required")
		}

		ctx, cancel := backendCtx(cmd)
		defer cancel()
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		perf, err := s.Backend.GetVaultPerformance(ctx, s.Runtime.Key, perfVault)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Performance · "+ui.Truncate(perf.Vault), [][2]string{
			{"Method", perf.Method},
			{"Valuation", "$" + perf.ValuationUSD},
			{"Profit", "$" + perf.ProfitUSD},
			{"APR", perf.APR + "%"},
			{"APY", perf.APY + "%"},
		}))

		if len(perf.Episodes) > 0 {
			t := ui.NewTable([]ui.Column{
				{Title: "START", Width: 22},
				{Title: "END", Width: 22},
				{Title: "PROFIT (USD)", Width: 14},
				{Title: "OPEN", Width: 6},
			})
			for _, e := range perf.Episodes {
				open := ""
				if e.Open {
					open = "✓"
				}
				t.AddRow(ui.Row{e.StartISO, e.EndISO, e.ProfitUSD, open})
			}
			fmt.Print(t.Render())
		}

		if len(perf.Cashflows) > 0 {
			t := ui.NewTable([]ui.Column{
				{Title: "DATE", Width: 22},
				{Title: "KIND", Width: 10},
				{Title: "AMOUNT (USD)", Width: 14},
				{Title: "TX", Width: 14},
			})
			for _, c := range perf.Cashflows {
				t.AddRow(ui.Row{c.TsISO, c.Kind, c.AmountUSD, ui.Truncate(c.TxHash)})
			}
			fmt.Print(t.Render())
		}
		return nil
	},
}

func init() {
	performanceCmd.Flags().StringVar(&perfVault, "vault", "", "vault address (required)")
}
