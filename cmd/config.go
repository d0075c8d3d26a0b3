package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := [][2]string{
			{"Config dir", cfg.Dir()},
			{"Default chain", cfg.DefaultChain},
			{"Default wallet", cfg.DefaultWallet},
			{"Backend URL", cfg.BackendURL},
		}
		for key, url := range cfg.CustomRPCs {
			pairs = append(pairs, [2]string{"RPC (" + key + ")", url})
		}
		for key, url := range cfg.ReadRPCs {
			pairs = append(pairs, [2]string{"Read RPC (" + key + ")", url})
		}
		fmt.Println(ui.KeyValueBlock("Configuration", pairs))
		return nil
	},
}

var configSetChainCmd = &cobra.Command{
	Use:   "set-chain <bnb|base>",
	Short: "Set the default chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := chain.Key(args[0])
		if _, ok := chain.ChainIDForKey(key); !ok {
			return fmt.Errorf("unsupported chain %q (supported: bnb, base)", args[0])
		}
		cfg.DefaultChain = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default chain set to " + args[0]))
		return nil
	},
}

var (
	rpcRead bool
)

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <chain> <url>",
	Short: "Override the RPC endpoint for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := chain.Key(args[0])
		if _, ok := chain.ChainIDForKey(key); !ok {
			return fmt.Errorf("unsupported chain %q (supported: bnb, base)", args[0])
		}
		if rpcRead {
			if cfg.ReadRPCs == nil {
				cfg.ReadRPCs = map[string]string{}
			}
			cfg.ReadRPCs[args[0]] = args[1]
		} else {
			if cfg.CustomRPCs == nil {
				cfg.CustomRPCs = map[string]string{}
			}
			cfg.CustomRPCs[args[0]] = args[1]
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("RPC endpoint updated for " + args[0]))
		return nil
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:   "set-backend <url>",
	Short: "Set the backend gateway URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.BackendURL = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Backend URL set to " + args[0]))
		return nil
	},
}

func init() {
	configSetRPCCmd.Flags().BoolVar(&rpcRead, "read", false, "set the read-only endpoint instead of the submit endpoint")
	configCmd.AddCommand(configShowCmd, configSetChainCmd, configSetRPCCmd, configSetBackendCmd)
}
