package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	autoVault       string
	autoEnabled     bool
	autoCooldown    string
	autoMaxSlippage string
	autoAllowSwap   bool
	autoRewardToken string
	autoOutToken    string
	autoPoolFee     string
)

var automationCmd = &cobra.Command{
	Use:   "automation",
	Short: "Configure vault automation",
}

var automationSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the vault's base automation config",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := automationVault(cmd)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Updating automation config...")
		spin.Start()
		res, err := v.SetAutomationConfig(autoEnabled, autoCooldown, autoMaxSlippage, autoAllowSwap)
		spin.Stop()
		if res != nil {
			saveLastTx("automation-set", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var automationHarvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Configure daily fee harvesting",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := automationVault(cmd)
		if err != nil {
			return err
		}
		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Updating harvest config...")
		spin.Start()
		res, err := orch.SetDailyHarvestConfig(cmd.Context(), s.Runtime.Key, v, autoEnabled, autoCooldown)
		spin.Stop()
		if res != nil {
			saveLastTx("automation-harvest", s.Runtime.Key, res)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res)
		return nil
	},
}

var automationCompoundCmd = &cobra.Command{
	Use:   "compound",
	Short: "Configure fee compounding",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := automationVault(cmd)
		if err != nil {
			return err
		}
		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Updating compound config...")
		spin.Start()
		res, err := orch.SetCompoundConfig(cmd.Context(), s.Runtime.Key, v, autoEnabled, autoCooldown)
		spin.Stop()
		if res != nil {
			saveLastTx("automation-compound", s.Runtime.Key, res)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res)
		return nil
	},
}

var automationRewardSwapCmd = &cobra.Command{
	Use:   "reward-swap",
	Short: "Configure automatic reward swapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		if autoEnabled && (autoRewardToken == "" || autoOutToken == "" || autoPoolFee == "") {
			return fmt.Errorf("--reward-token, --out-token and --pool-fee are required when enabling")
		}
		v, s, err := automationVault(cmd)
		if err != nil {
			return err
		}
		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Updating reward-swap config...")
		spin.Start()
		res, err := orch.SetRewardSwapConfig(cmd.Context(), s.Runtime.Key, v, autoEnabled, autoRewardToken, autoOutToken, autoPoolFee)
		spin.Stop()
		if res != nil {
			saveLastTx("automation-reward-swap", s.Runtime.Key, res)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res)
		return nil
	},
}

func automationVault(cmd *cobra.Command) (*contract.Vault, *session, error) {
	if autoVault == "" {
		return nil, nil, fmt.Errorf("--vault is required")
	}
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return nil, nil, err
	}
	v, err := contract.NewVault(s.Exec, autoVault)
	if err != nil {
		return nil, nil, err
	}
	return v, s, nil
}

func init() {
	automationCmd.PersistentFlags().StringVar(&autoVault, "vault", "", "vault address (required)")
	automationCmd.PersistentFlags().BoolVar(&autoEnabled, "enabled", true, "enable or disable")
	automationCmd.PersistentFlags().StringVar(&autoCooldown, "cooldown", "86400", "cooldown in seconds")

	automationSetCmd.Flags().StringVar(&autoMaxSlippage, "max-slippage", "100", "max slippage in bps")
	automationSetCmd.Flags().BoolVar(&autoAllowSwap, "allow-swap", false, "allow the keeper to swap during rebalances")

	automationRewardSwapCmd.Flags().StringVar(&autoRewardToken, "reward-token", "", "reward token address")
	automationRewardSwapCmd.Flags().StringVar(&autoOutToken, "out-token", "", "output token address")
	automationRewardSwapCmd.Flags().StringVar(&autoPoolFee, "pool-fee", "", "pool fee tier for the swap")

	automationCmd.AddCommand(automationSetCmd, automationHarvestCmd, automationCompoundCmd, automationRewardSwapCmd)
}
