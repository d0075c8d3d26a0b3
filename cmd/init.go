package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
	"github.com/openvaults/vaultctl/internal/wallet"
)

var (
	initChain   string
	initBackend string
	initName    string
	initKey     string
	initAddress string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up vaultctl configuration",
	Long:  "Write the initial configuration and optionally add a first wallet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if initChain != "" {
			cfg.DefaultChain = initChain
		}
		if initBackend != "" {
			cfg.BackendURL = initBackend
		}

		if initName != "" {
			mgr := walletManager()
			if initKey != "" {
				if err := mgr.AddWithKey(initName, initKey); err != nil {
					return fmt.Errorf("adding wallet: %w", err)
				}
			} else if initAddress != "" {
				w := &wallet.Wallet{Name: initName, Address: initAddress, Type: wallet.TypeWatchOnly}
				if err := mgr.Add(initName, w); err != nil {
					return fmt.Errorf("adding wallet: %w", err)
				}
			} else {
				return fmt.Errorf("--wallet-name needs --key or --address")
			}
			if err := mgr.SetDefault(initName); err != nil {
				return err
			}
			cfg.DefaultWallet = initName
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("Configuration written to " + cfg.Dir()))
		fmt.Println(ui.Meta("Default chain: " + cfg.DefaultChain))
		if cfg.DefaultWallet != "" {
			fmt.Println(ui.Meta("Default wallet: " + cfg.DefaultWallet))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initChain, "chain-default", "", "default chain: bnb|base")
	initCmd.Flags().StringVar(&initBackend, "backend-url", "", "backend gateway URL")
	initCmd.Flags().StringVar(&initName, "wallet-name", "", "name for the first wallet")
	initCmd.Flags().StringVar(&initKey, "key", "", "private key (hex) for a signing wallet")
	initCmd.Flags().StringVar(&initAddress, "address", "", "address for a watch-only wallet")
}
