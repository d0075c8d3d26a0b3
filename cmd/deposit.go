package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	depositVault  string
	depositToken  string
	depositAmount string
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit tokens into a vault",
	Long: `Transfer ERC-20 tokens into a vault and record the deposit in the
backend. The amount is human-readable ("10.5") and converted using the
token's on-chain decimals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if depositVault == "" {
			return fmt.Errorf("--vault is required")
		}
		if depositToken == "" {
			return fmt.Errorf("--token is required")
		}
		if depositAmount == "" {
			return fmt.Errorf("--amount is required")
		}

		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		v, err := contract.NewVault(s.Exec, depositVault)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Deposit", [][2]string{
			{"Chain", string(s.Runtime.Key)},
			{"Vault", ui.Addr(depositVault)},
			{"Token", ui.Addr(depositToken)},
			{"Amount", depositAmount},
			{"From", ui.Addr(s.Wallet.Address)},
		}))
		if !confirmOr("Send this deposit?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Depositing...")
		spin.Start()
		res, err := orch.Deposit(cmd.Context(), s.Runtime.Key, v, depositToken, depositAmount)
		spin.Stop()
		if res != nil {
			saveLastTx("deposit", s.Runtime.Key, res.TxResult)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res.TxResult)
		fmt.Println(ui.Meta(fmt.Sprintf("Raw amount: %s (%d decimals)", res.AmountRaw.String(), res.Decimals)))
		return nil
	},
}

func init() {
	depositCmd.Flags().StringVar(&depositVault, "vault", "", "vault address (required)")
	depositCmd.Flags().StringVar(&depositToken, "token", "", "ERC-20 token address (required)")
	depositCmd.Flags().StringVar(&depositAmount, "amount", "", `human-readable amount, e.g. "10.5" (required)`)
}
