package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	posVault string
	posLower string
	posUpper string
	posCap0  string
	posCap1  string
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Manage the vault's LP position",
}

var positionOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the initial LP position",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := positionVault(cmd)
		if err != nil {
			return err
		}
		lower, err := contract.ParseTick("tickLower", posLower)
		if err != nil {
			return err
		}
		upper, err := contract.ParseTick("tickUpper", posUpper)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Open Position", [][2]string{
			{"Vault", ui.Addr(posVault)},
			{"Range", fmt.Sprintf("[%d, %d]", lower, upper)},
		}))
		if !confirmOr("Open this position?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Opening position...")
		spin.Start()
		res, err := v.OpenInitialPosition(lower, upper)
		spin.Stop()
		if res != nil {
			saveLastTx("position-open", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var positionRebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Rebalance into a new tick range with amount caps",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := positionVault(cmd)
		if err != nil {
			return err
		}
		lower, err := contract.ParseTick("tickLower", posLower)
		if err != nil {
			return err
		}
		upper, err := contract.ParseTick("tickUpper", posUpper)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Rebalance", [][2]string{
			{"Vault", ui.Addr(posVault)},
			{"New range", fmt.Sprintf("[%d, %d]", lower, upper)},
			{"Cap token0", posCap0},
			{"Cap token1", posCap1},
		}))
		if !confirmOr("Rebalance now?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Rebalancing...")
		spin.Start()
		res, err := v.RebalanceWithCaps(lower, upper, posCap0, posCap1)
		spin.Stop()
		if res != nil {
			saveLastTx("position-rebalance", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var positionCollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect accrued LP fees into the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := positionVault(cmd)
		if err != nil {
			return err
		}
		spin := ui.NewSpinner("Collecting fees...")
		spin.Start()
		res, err := v.CollectToVault()
		spin.Stop()
		if res != nil {
			saveLastTx("position-collect", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

// positionVault opens a signing session bound to --vault.
func positionVault(cmd *cobra.Command) (*contract.Vault, *session, error) {
	if posVault == "" {
		return nil, nil, fmt.Errorf("--vault is required")
	}
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return nil, nil, err
	}
	v, err := contract.NewVault(s.Exec, posVault)
	if err != nil {
		return nil, nil, err
	}
	return v, s, nil
}

func init() {
	positionCmd.PersistentFlags().StringVar(&posVault, "vault", "", "vault address (required)")
	positionOpenCmd.Flags().StringVar(&posLower, "lower", "", "lower tick (required)")
	positionOpenCmd.Flags().StringVar(&posUpper, "upper", "", "upper tick (required)")
	positionRebalanceCmd.Flags().StringVar(&posLower, "lower", "", "new lower tick (required)")
	positionRebalanceCmd.Flags().StringVar(&posUpper, "upper", "", "new upper tick (required)")
	positionRebalanceCmd.Flags().StringVar(&posCap0, "cap0", "0", "max token0 to deploy (raw units, 0 = all)")
	positionRebalanceCmd.Flags().StringVar(&posCap1, "cap1", "0", "max token1 to deploy (raw units, 0 = all)")
	positionCmd.AddCommand(positionOpenCmd, positionRebalanceCmd, positionCollectCmd)
}
