package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/ui"
	"github.com/openvaults/vaultctl/internal/wallet"
)

var (
	walletAddKey  string
	walletAddAddr string
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a signing or watch-only wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := walletManager()

		switch {
		case walletAddKey != "":
			if err := mgr.AddWithKey(name, walletAddKey); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success("Signing wallet added"))
			fmt.Println(ui.Addr(w.Address))
			fmt.Println(ui.Meta("Private key stored in the system keychain"))
		case walletAddAddr != "":
			w := &wallet.Wallet{Name: name, Address: walletAddAddr, Type: wallet.TypeWatchOnly}
			if err := mgr.Add(name, w); err != nil {
				return err
			}
			fmt.Println(ui.Success("Watch-only wallet added"))
			fmt.Println(ui.Addr(walletAddAddr))
		default:
			return fmt.Errorf("either --key or --address is required")
		}

		if cfg.DefaultWallet == "" {
			cfg.DefaultWallet = name
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Println(ui.Meta("Set as default wallet"))
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := walletManager()
		wallets := mgr.List()
		if len(wallets) == 0 {
			fmt.Println(ui.Meta("No wallets. Add one with: vaultctl wallet add <name> --key <hex>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "NAME", Width: 16},
			{Title: "ADDRESS", Width: 44},
			{Title: "TYPE", Width: 12},
			{Title: "DEFAULT", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, w.Address, w.Type, def})
		}
		fmt.Print(t.Render())
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !assumeYes && !ui.ConfirmDanger("Remove wallet "+name+"? The stored key is deleted from the keychain.") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr := walletManager()
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success("Wallet removed"))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := walletManager()
		if err := mgr.SetDefault(args[0]); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default wallet set to " + args[0]))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletAddKey, "key", "", "private key (hex) — stored in the system keychain")
	walletAddCmd.Flags().StringVar(&walletAddAddr, "address", "", "address for a watch-only wallet")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}
