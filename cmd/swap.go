package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/ui"
)

var (
	swapVault      string
	swapIn         string
	swapOut        string
	swapFee        string
	swapAmount     string
	swapMinOut     string
	swapPriceLimit string
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap tokens held by the vault",
	Long: `Swap an exact input amount through the PancakeSwap V3 router. Amounts
are raw token units; --min-out guards against slippage and --price-limit
(sqrtPriceLimitX96) bounds the execution price (0 = no limit).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if swapVault == "" {
			return fmt.Errorf("--vault is required")
		}
		for _, req := range []struct{ flag, v string }{
			{"--in", swapIn}, {"--out", swapOut}, {"--fee", swapFee},
			{"--amount", swapAmount}, {"--min-out", swapMinOut},
		} {
			if req.v == "" {
				return fmt.Errorf("%s is required", req.flag)
			}
		}

		s, err := openSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		v, err := contract.NewVault(s.Exec, swapVault)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Swap", [][2]string{
			{"Vault", ui.Addr(swapVault)},
			{"Token in", ui.Addr(swapIn)},
			{"Token out", ui.Addr(swapOut)},
			{"Pool fee", swapFee},
			{"Amount (raw)", swapAmount},
			{"Min out (raw)", swapMinOut},
		}))
		if !confirmOr("Execute this swap?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Swapping...")
		spin.Start()
		res, err := v.SwapExactIn(swapIn, swapOut, swapFee, swapAmount, swapMinOut, swapPriceLimit)
		spin.Stop()
		if res != nil {
			saveLastTx("swap", s.Runtime.Key, res)
		}
		if err != nil {
			return err
		}
		printTxResult(res)
		return nil
	},
}

func init() {
	swapCmd.Flags().StringVar(&swapVault, "vault", "", "vault address (required)")
	swapCmd.Flags().StringVar(&swapIn, "in", "", "input token address (required)")
	swapCmd.Flags().StringVar(&swapOut, "out", "", "output token address (required)")
	swapCmd.Flags().StringVar(&swapFee, "fee", "", "pool fee tier, e.g. 2500 (required)")
	swapCmd.Flags().StringVar(&swapAmount, "amount", "", "exact input amount in raw units (required)")
	swapCmd.Flags().StringVar(&swapMinOut, "min-out", "", "minimum output in raw units (required)")
	swapCmd.Flags().StringVar(&swapPriceLimit, "price-limit", "0", "sqrtPriceLimitX96 bound (0 = none)")
}
