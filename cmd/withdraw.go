package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	withdrawVault  string
	withdrawTo     string
	withdrawTokens []string
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Exit the position and withdraw all funds",
	Long: `Close the vault's LP position and sweep the given tokens to the
recipient. This is the full-exit path; there is no partial withdraw.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if withdrawVault == "" {
			return fmt.Errorf("--vault is required")
		}
		if withdrawTo == "" {
			return fmt.Errorf("--to is required")
		}
		if len(withdrawTokens) == 0 {
			return fmt.Errorf("--tokens is required")
		}

		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		v, err := contract.NewVault(s.Exec, withdrawVault)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Withdraw All", [][2]string{
			{"Chain", string(s.Runtime.Key)},
			{"Vault", ui.Addr(withdrawVault)},
			{"Recipient", ui.Addr(withdrawTo)},
			{"Tokens", strings.Join(withdrawTokens, ", ")},
		}))
		if !assumeYes && !ui.ConfirmDanger("Exit the position and withdraw everything?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Withdrawing...")
		spin.Start()
		res, err := orch.Withdraw(cmd.Context(), s.Runtime.Key, v, withdrawTo, withdrawTokens)
		spin.Stop()
		if res != nil {
			saveLastTx("withdraw", s.Runtime.Key, res)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res)
		return nil
	},
}

func init() {
	withdrawCmd.Flags().StringVar(&withdrawVault, "vault", "", "vault address (required)")
	withdrawCmd.Flags().StringVar(&withdrawTo, "to", "", "recipient address (required)")
	withdrawCmd.Flags().StringSliceVar(&withdrawTokens, "tokens", nil, "token addresses to sweep (required)")
}
