package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openvaults/vaultctl/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/openvaults/vaultctl/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir    string
	cfg       *config.Config
	verbose   bool
	assumeYes bool
	flagChain string
	flagWall  string
	log       zerolog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "CLI for OpenVaults yield vaults",
	Long: `vaultctl — terminal client for the OpenVaults protocol.

  Deploy client vaults, register strategies, deposit and withdraw,
  manage LP positions and automation, and query the backend's view of
  your vaults — on BNB Chain and Base.

Global flags --chain and --wallet override the configured defaults for
a single invocation. Persist with: vaultctl config set-chain <chain>`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		if verbose {
			log = log.Level(zerolog.DebugLevel)
		} else {
			log = log.Level(zerolog.WarnLevel)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// VAULTCTL_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("VAULTCTL_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.vaultctl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&flagChain, "chain", "", "chain: bnb|base (default: config)")
	rootCmd.PersistentFlags().StringVar(&flagWall, "wallet", "", "wallet name (default: config)")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		configCmd,
		walletCmd,
		registryCmd,
		poolsCmd,
		strategyCmd,
		vaultCmd,
		depositCmd,
		withdrawCmd,
		positionCmd,
		stakeCmd,
		unstakeCmd,
		claimCmd,
		swapCmd,
		automationCmd,
		statusCmd,
		performanceCmd,
		eventsCmd,
		txCmd,
		adminCmd,
	)
}
