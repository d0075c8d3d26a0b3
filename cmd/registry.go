package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
)

var registryRefresh bool

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Show the deployed contract registry for the active chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := backendCtx(cmd)
		defer cancel()

		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}

		reg := s.Registry
		if registryRefresh {
			s.Cache.Clear(s.Runtime.Key)
			reg, err = s.Cache.Load(ctx, s.Runtime.Key)
			if err != nil {
				return fmt.Errorf("refreshing registry: %w", err)
			}
		}

		fmt.Println(ui.KeyValueBlock("Contracts · "+string(reg.ChainKey), [][2]string{
			{"Strategy factory", reg.StrategyFactory},
			{"Vault factory", reg.VaultFactory},
			{"Fee collector", reg.ProtocolFeeCollector},
			{"Fee buffer", reg.VaultFeeBuffer},
		}))

		if len(reg.Adapters) > 0 {
			t := ui.NewTable([]ui.Column{
				{Title: "ADAPTER", Width: 20},
				{Title: "ADDRESS", Width: 44},
				{Title: "DEX ROUTER", Width: 44},
			})
			for _, a := range reg.Adapters {
				t.AddRow(ui.Row{a.Name, a.Address, a.DexRouter})
			}
			fmt.Print(t.Render())
		}
		return nil
	},
}

func init() {
	registryCmd.Flags().BoolVar(&registryRefresh, "refresh", false, "drop the cached registry and refetch")
}
