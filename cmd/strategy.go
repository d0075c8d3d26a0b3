package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/backend"
	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	stratAdapter  string
	stratRouter   string
	stratToken0   string
	stratToken1   string
	stratName     string
	stratDesc     string
	stratPoolFee  string
	stratTickW    int32
	stratNotes    string
	stratParamsID string
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Register and inspect strategies",
}

var strategyRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new strategy on-chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, req := range []struct{ flag, v string }{
			{"--adapter", stratAdapter}, {"--router", stratRouter},
			{"--token0", stratToken0}, {"--token1", stratToken1}, {"--name", stratName},
		} {
			if req.v == "" {
				return fmt.Errorf("%s is required", req.flag)
			}
		}

		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		reg, err := contract.NewStrategyRegistry(s.Exec, s.Registry.StrategyFactory)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Register Strategy", [][2]string{
			{"Chain", string(s.Runtime.Key)},
			{"Owner", ui.Addr(s.Wallet.Address)},
			{"Adapter", ui.Addr(stratAdapter)},
			{"DEX router", ui.Addr(stratRouter)},
			{"Token0", ui.Addr(stratToken0)},
			{"Token1", ui.Addr(stratToken1)},
			{"Name", stratName},
		}))
		if !confirmOr("Register this strategy?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Registering strategy...")
		spin.Start()
		res, resolution, err := reg.Register(stratAdapter, stratRouter, stratToken0, stratToken1, stratName, stratDesc)
		spin.Stop()
		if err != nil {
			return err
		}
		saveLastTx("strategy-register", s.Runtime.Key, res)
		printTxResult(res)

		switch resolution.State {
		case contract.Resolved:
			fmt.Println(ui.Meta("Strategy ID: " + resolution.Value))
		case contract.FellBack:
			fmt.Println(ui.Meta("Strategy ID (from owner list): " + resolution.Value))
		default:
			fmt.Println(ui.Warn("Strategy registered but the ID could not be determined — run: vaultctl strategy list"))
		}
		return nil
	},
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your registered strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), false)
		if err != nil {
			return err
		}
		if s.Wallet == nil {
			return fmt.Errorf("no wallet configured")
		}
		// Reads go through the executor's read path; a watch-only wallet
		// still works because nothing is signed.
		exec := s.Exec
		if exec == nil {
			exec = readOnlyExecutor(s)
		}
		reg, err := contract.NewStrategyRegistry(exec, s.Registry.StrategyFactory)
		if err != nil {
			return err
		}

		ids, err := reg.IDsByOwner(s.Wallet.Address)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println(ui.Meta("No strategies registered by " + s.Wallet.Address))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 8},
			{Title: "NAME", Width: 24},
			{Title: "ADAPTER", Width: 44},
			{Title: "ACTIVE", Width: 8},
		})
		for _, id := range ids {
			rec, err := reg.Get(id.String())
			if err != nil {
				t.AddRow(ui.Row{id.String(), "(unreadable)", "", ""})
				continue
			}
			active := ""
			if rec.Active {
				active = "✓"
			}
			t.AddRow(ui.Row{id.String(), rec.Name, rec.Adapter.Hex(), active})
		}
		fmt.Print(t.Render())
		return nil
	},
}

var strategyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one strategy",
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
		reg, err := contract.NewStrategyRegistry(exec, s.Registry.StrategyFactory)
		if err != nil {
			return err
		}
		rec, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		active := "no"
		if rec.Active {
			active = "yes"
		}
		fmt.Println(ui.KeyValueBlock("Strategy "+args[0], [][2]string{
			{"Name", rec.Name},
			{"Description", rec.Description},
			{"Adapter", ui.Addr(rec.Adapter.Hex())},
			{"DEX router", ui.Addr(rec.DexRouter.Hex())},
			{"Token0", ui.Addr(rec.Token0.Hex())},
			{"Token1", ui.Addr(rec.Token1.Hex())},
			{"Active", active},
		}))
		return nil
	},
}

var strategyParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Off-chain strategy parameters",
}

var strategyParamsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save off-chain parameters for a strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		if stratParamsID == "" {
			return fmt.Errorf("--id is required")
		}
		ctx, cancel := backendCtx(cmd)
		defer cancel()

		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		params := &backend.StrategyParams{
			Chain:      string(s.Runtime.Key),
			Owner:      s.Wallet.Address,
			StrategyID: stratParamsID,
			Name:       stratName,
			PoolFee:    stratPoolFee,
			TickWidth:  stratTickW,
			Notes:      stratNotes,
		}
		if err := s.Backend.UpsertStrategyParams(ctx, params); err != nil {
			return err
		}
		fmt.Println(ui.Success("Parameters saved for strategy " + stratParamsID))
		return nil
	},
}

var strategyParamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your off-chain strategy parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := backendCtx(cmd)
		defer cancel()

		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		if s.Wallet == nil {
			return fmt.Errorf("no wallet configured")
		}
		list, err := s.Backend.ListStrategyParams(ctx, s.Runtime.Key, s.Wallet.Address)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println(ui.Meta("No saved parameters."))
			return nil
		}
		t := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 8},
			{Title: "NAME", Width: 24},
			{Title: "POOL FEE", Width: 10},
			{Title: "TICK WIDTH", Width: 12},
		})
		for _, p := range list {
			t.AddRow(ui.Row{p.StrategyID, p.Name, p.PoolFee, fmt.Sprintf("%d", p.TickWidth)})
		}
		fmt.Print(t.Render())
		return nil
	},
}

func init() {
	strategyRegisterCmd.Flags().StringVar(&stratAdapter, "adapter", "", "farm adapter address (required)")
	strategyRegisterCmd.Flags().StringVar(&stratRouter, "router", "", "DEX router address (required)")
	strategyRegisterCmd.Flags().StringVar(&stratToken0, "token0", "", "token0 address (required)")
	strategyRegisterCmd.Flags().StringVar(&stratToken1, "token1", "", "token1 address (required)")
	strategyRegisterCmd.Flags().StringVar(&stratName, "name", "", "strategy name (required)")
	strategyRegisterCmd.Flags().StringVar(&stratDesc, "description", "", "strategy description")

	strategyParamsSetCmd.Flags().StringVar(&stratParamsID, "id", "", "strategy ID (required)")
	strategyParamsSetCmd.Flags().StringVar(&stratName, "name", "", "display name")
	strategyParamsSetCmd.Flags().StringVar(&stratPoolFee, "pool-fee", "", "preferred pool fee, e.g. 2500")
	strategyParamsSetCmd.Flags().Int32Var(&stratTickW, "tick-width", 0, "preferred tick width")
	strategyParamsSetCmd.Flags().StringVar(&stratNotes, "notes", "", "free-form notes")

	strategyParamsCmd.AddCommand(strategyParamsSetCmd, strategyParamsListCmd)
	strategyCmd.AddCommand(strategyRegisterCmd, strategyListCmd, strategyShowCmd, strategyParamsCmd)
}
