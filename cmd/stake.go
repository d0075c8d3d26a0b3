package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var farmVault string

var stakeCmd = &cobra.Command{
	Use:   "stake",
	Short: "Stake the position NFT into the farm",
	RunE:  func(cmd *cobra.Command, args []string) error { return farmAction(cmd, "stake") },
}

var unstakeCmd = &cobra.Command{
	Use:   "unstake",
	Short: "Unstake the position NFT from the farm",
	RunE:  func(cmd *cobra.Command, args []string) error { return farmAction(cmd, "unstake") },
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim farm rewards into the vault",
	RunE:  func(cmd *cobra.Command, args []string) error { return farmAction(cmd, "claim") },
}

func farmAction(cmd *cobra.Command, action string) error {
	if farmVault == "" {
		return fmt.Errorf("--vault is required")
	}
	s, err := openSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	v, err := contract.NewVault(s.Exec, farmVault)
	if err != nil {
		return err
	}

	var run func() (*contract.TxResult, error)
	switch action {
	case "stake":
		run = v.Stake
	case "unstake":
		run = v.Unstake
	case "claim":
		run = v.ClaimRewards
	}

	spin := ui.NewSpinner(action + "...")
	spin.Start()
	res, err := run()
	spin.Stop()
	if res != nil {
		saveLastTx(action, s.Runtime.Key, res)
	}
	if err != nil {
		return err
	}
	printTxResult(res)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{stakeCmd, unstakeCmd, claimCmd} {
		c.Flags().StringVar(&farmVault, "vault", "", "vault address (required)")
	}
}
