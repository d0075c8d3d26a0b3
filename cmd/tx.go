package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Show the most recent transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, err := cfg.LoadLastTx()
		if err != nil {
			return err
		}
		if last == nil || last.Hash == "" {
			fmt.Println(ui.Meta("No transactions recorded yet."))
			return nil
		}

		status := ui.StyleSuccess.Render("confirmed")
		if last.Status == 0 {
			status = ui.StyleError.Render("reverted")
		}
		fmt.Println(ui.KeyValueBlock("Last Transaction", [][2]string{
			{"Action", last.Action},
			{"Chain", last.Chain},
			{"Hash", ui.Addr(last.Hash)},
			{"Status", status},
			{"Block", fmt.Sprintf("#%d", last.BlockNumber)},
			{"Gas used", fmt.Sprintf("%d", last.GasUsed)},
			{"When", last.At},
		}))
		return nil
	},
}
