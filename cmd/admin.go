package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/backend"
	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	adminTarget    string
	adminAllowed   bool
	adminCooldown  string
	adminSlippage  string
	adminAllowSwap bool
	adminToken     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Protocol administration (allowlisted operators only)",
}

// adminSession opens a signing session and checks the wallet against the
// configured admin list. The contracts enforce this on-chain too; the
// client check just fails faster.
func adminSession(cmd *cobra.Command) (*session, error) {
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return nil, err
	}
	if !cfg.IsAdmin(s.Wallet.Address) {
		return nil, fmt.Errorf("wallet %s is not in the admin list", s.Wallet.Address)
	}
	return s, nil
}

var adminAllowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Toggle an address on the fee collector allowlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminTarget == "" {
			return fmt.Errorf("--target is required")
		}
		s, err := adminSession(cmd)
		if err != nil {
			return err
		}
		collector, err := contract.NewFeeCollector(s.Exec, s.Registry.ProtocolFeeCollector)
		if err != nil {
			return err
		}

		verb := "Allowlist"
		if !adminAllowed {
			verb = "Remove from allowlist"
		}
		if !assumeYes && !ui.ConfirmDanger(verb+" "+adminTarget+"?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Updating allowlist...")
		spin.Start()
		res, err := collector.SetAllowlisted(adminTarget, adminAllowed)
		spin.Stop()
		if res != nil {
			saveLastTx("admin-allowlist", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)

		ctx, cancel := backendCtx(cmd)
		defer cancel()
		req := &backend.AllowlistRequest{Chain: s.Runtime.Key, Address: adminTarget, Allowed: adminAllowed}
		if err := s.Backend.AdminSetAllowlisted(ctx, req); err != nil {
			fmt.Println(ui.Warn("On-chain allowlist updated but the backend record failed: " + err.Error()))
		}
		return nil
	},
}

var adminCheckAllowlistCmd = &cobra.Command{
	Use:   "check-allowlist <address>",
	Short: "Check whether an address is allowlisted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		exec := s.Exec
		if exec == nil {
			exec = readOnlyExecutor(s)
		}
		collector, err := contract.NewFeeCollector(exec, s.Registry.ProtocolFeeCollector)
		if err != nil {
			return err
		}
		ok, err := collector.IsAllowlisted(args[0])
		if err != nil {
			return err
		}
		if ok {
			fmt.Println(ui.Success(args[0] + " is allowlisted"))
		} else {
			fmt.Println(ui.Meta(args[0] + " is not allowlisted"))
		}
		return nil
	},
}

var adminSetExecutorCmd = &cobra.Command{
	Use:   "set-executor <address>",
	Short: "Set the factory's keeper executor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := adminSession(cmd)
		if err != nil {
			return err
		}
		factory, err := contract.NewFactory(s.Exec, s.Registry.VaultFactory)
		if err != nil {
			return err
		}
		res, err := factory.SetExecutor(args[0])
		if res != nil {
			saveLastTx("admin-set-executor", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var adminSetCollectorCmd = &cobra.Command{
	Use:   "set-fee-collector <address>",
	Short: "Point the factory at a new fee collector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := adminSession(cmd)
		if err != nil {
			return err
		}
		factory, err := contract.NewFactory(s.Exec, s.Registry.VaultFactory)
		if err != nil {
			return err
		}
		res, err := factory.SetFeeCollector(args[0])
		if res != nil {
			saveLastTx("admin-set-fee-collector", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var adminSetDefaultsCmd = &cobra.Command{
	Use:   "set-defaults",
	Short: "Set factory-wide automation defaults for new vaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := adminSession(cmd)
		if err != nil {
			return err
		}
		factory, err := contract.NewFactory(s.Exec, s.Registry.VaultFactory)
		if err != nil {
			return err
		}
		res, err := factory.SetDefaults(adminCooldown, adminSlippage, adminAllowSwap)
		if res != nil {
			saveLastTx("admin-set-defaults", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

var adminFeeBalanceCmd = &cobra.Command{
	Use:   "fee-balance",
	Short: "Show the fee buffer's balance of a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminToken == "" {
			return fmt.Errorf("--token is required")
		}
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		buffer, err := contract.NewFeeBuffer(s.Read, s.Registry.VaultFeeBuffer)
		if err != nil {
			return err
		}
		raw, human, err := buffer.TokenBalance(adminToken)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Fee Buffer Balance", [][2]string{
			{"Buffer", ui.Addr(s.Registry.VaultFeeBuffer)},
			{"Token", ui.Addr(adminToken)},
			{"Balance", human},
			{"Raw", raw.String()},
		}))
		return nil
	},
}

var adminCreateFactoryCmd = &cobra.Command{
	Use:   "create-factory",
	Short: "Ask the backend to deploy a factory on the active chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := adminSession(cmd)
		if err != nil {
			return err
		}
		if !assumeYes && !ui.ConfirmDanger("Deploy a new factory on "+string(s.Runtime.Key)+"?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		ctx, cancel := backendCtx(cmd)
		defer cancel()
		if err := s.Backend.AdminCreateFactory(ctx, s.Runtime.Key); err != nil {
			return err
		}
		fmt.Println(ui.Success("Factory deployment requested"))
		fmt.Println(ui.Meta("Refresh the registry once it lands: vaultctl registry --refresh"))
		return nil
	},
}

func init() {
	adminAllowlistCmd.Flags().StringVar(&adminTarget, "target", "", "address to toggle (required)")
	adminAllowlistCmd.Flags().BoolVar(&adminAllowed, "allowed", true, "allow (true) or revoke (false)")

	adminSetDefaultsCmd.Flags().StringVar(&adminCooldown, "cooldown", "86400", "default cooldown seconds")
	adminSetDefaultsCmd.Flags().StringVar(&adminSlippage, "max-slippage", "100", "default max slippage bps")
	adminSetDefaultsCmd.Flags().BoolVar(&adminAllowSwap, "allow-swap", false, "default swap permission")

	adminFeeBalanceCmd.Flags().StringVar(&adminToken, "token", "", "token address (required)")

	adminCmd.AddCommand(
		adminAllowlistCmd,
		adminCheckAllowlistCmd,
		adminSetExecutorCmd,
		adminSetCollectorCmd,
		adminSetDefaultsCmd,
		adminFeeBalanceCmd,
		adminCreateFactoryCmd,
	)
}
