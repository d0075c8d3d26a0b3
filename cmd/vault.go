package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var vaultCreateStrategy string

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Deploy and inspect client vaults",
}

var vaultCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Deploy a new vault for a strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if vaultCreateStrategy == "" {
			return fmt.Errorf("--strategy is required")
		}

		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		factory, err := contract.NewFactory(s.Exec, s.Registry.VaultFactory)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Create Vault", [][2]string{
			{"Chain", string(s.Runtime.Key)},
			{"Owner", ui.Addr(s.Wallet.Address)},
			{"Factory", ui.Addr(s.Registry.VaultFactory)},
			{"Strategy ID", vaultCreateStrategy},
		}))
		if !confirmOr("Deploy this vault?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		orch := newOrchestrator(s)
		spin := ui.NewSpinner("Deploying vault...")
		spin.Start()
		res, resolution, err := orch.CreateVault(cmd.Context(), s.Runtime.Key, factory, vaultCreateStrategy)
		spin.Stop()
		if res != nil {
			saveLastTx("vault-create", s.Runtime.Key, res)
		}
		if err != nil {
			return reportDualWriteErr(err)
		}
		printTxResult(res)

		switch resolution.State {
		case contract.Resolved:
			fmt.Println(ui.Meta("Vault: ") + ui.Addr(resolution.Value))
		case contract.FellBack:
			fmt.Println(ui.Meta("Vault (from owner list): ") + ui.Addr(resolution.Value))
		default:
			fmt.Println(ui.Warn("Vault deployed but its address could not be determined — run: vaultctl vault list"))
		}
		return nil
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your vaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		if s.Wallet == nil {
			return fmt.Errorf("no wallet configured")
		}
		exec := s.Exec
		if exec == nil {
			exec = readOnlyExecutor(s)
		}
		factory, err := contract.NewFactory(exec, s.Registry.VaultFactory)
		if err != nil {
			return err
		}
		vaults, err := factory.VaultsByOwner(s.Wallet.Address)
		if err != nil {
			return err
		}
		if len(vaults) == 0 {
			fmt.Println(ui.Meta("No vaults owned by " + s.Wallet.Address))
			return nil
		}
		for i, v := range vaults {
			fmt.Printf("%s  %s\n", ui.Meta(fmt.Sprintf("%2d", i)), ui.Addr(v.Hex()))
		}
		return nil
	},
}

var vaultInfoCmd = &cobra.Command{
	Use:   "info <vault>",
	Short: "Read a vault's on-chain state",
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
		v, err := contract.NewVault(exec, args[0])
		if err != nil {
			return err
		}
		rec, err := v.Record()
		if err != nil {
			return err
		}

		state := "idle"
		if rec.PositionTokenID != nil && rec.PositionTokenID.Sign() > 0 {
			state = "in position (NFT #" + rec.PositionTokenID.String() + ")"
		}
		pairs := [][2]string{
			{"Owner", ui.Addr(rec.Owner.Hex())},
			{"Strategy ID", rec.StrategyID.String()},
			{"Adapter", ui.Addr(rec.Adapter.Hex())},
			{"DEX router", ui.Addr(rec.DexRouter.Hex())},
			{"Token0", ui.Addr(rec.Token0.Hex())},
			{"Token1", ui.Addr(rec.Token1.Hex())},
			{"State", state},
		}
		if rec.AutomationEnabled {
			pairs = append(pairs,
				[2]string{"Automation", "enabled"},
				[2]string{"Cooldown", fmt.Sprintf("%ds", rec.CooldownSec)},
				[2]string{"Max slippage", fmt.Sprintf("%d bps", rec.MaxSlippageBps)},
				[2]string{"Allow swap", fmt.Sprintf("%t", rec.AllowSwap)},
			)
		} else {
			pairs = append(pairs, [2]string{"Automation", "disabled"})
		}
		fmt.Println(ui.KeyValueBlock("Vault "+ui.Truncate(args[0]), pairs))
		return nil
	},
}

func init() {
	vaultCreateCmd.Flags().StringVar(&vaultCreateStrategy, "strategy", "", "strategy ID to deploy for (required)")
	vaultCmd.AddCommand(vaultCreateCmd, vaultListCmd, vaultInfoCmd)
}
