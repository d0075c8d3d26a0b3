package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/openvaults/vaultctl/internal/backend"
	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/config"
	"github.com/openvaults/vaultctl/internal/contract"
	"github.com/openvaults/vaultctl/internal/orchestrator"
	"github.com/openvaults/vaultctl/internal/registry"
	"github.com/openvaults/vaultctl/internal/ui"
	"github.com/openvaults/vaultctl/internal/wallet"
	"github.com/spf13/cobra"
)

// session bundles the per-invocation wiring: resolved chain runtime,
// providers, wallet, backend client and registry.
type session struct {
	Runtime  chain.Runtime
	Submit   *chain.EVMClient
	Read     *chain.EVMClient
	Wallet   *wallet.Wallet
	Signer   *wallet.Signer
	Exec     *contract.Executor
	Backend  *backend.Client
	Cache    *registry.Cache
	Registry *registry.Registry
}

// openSession resolves the active chain against the RPC endpoint's reported
// chain id, loads the acting wallet, authenticates the backend client and
// fetches the contract registry. With needSigner the wallet must hold a key.
func openSession(ctx context.Context, needSigner bool) (*session, error) {
	chainName := flagChain
	if chainName == "" {
		chainName = cfg.DefaultChain
	}

	rpcURL, err := cfg.RPCURL(chainName)
	if err != nil {
		return nil, err
	}
	submit := chain.NewEVMClient(rpcURL)

	// The endpoint's reported chain id is authoritative, not the config.
	resolver := chain.NewResolver(submit)
	rt, err := resolver.ActiveRuntime()
	if err != nil {
		return nil, err
	}
	if string(rt.Key) != chainName {
		return nil, fmt.Errorf("endpoint %s reports chain %s but config selects %s", rpcURL, rt.Key, chainName)
	}

	readURL, err := cfg.ReadRPCURL(chainName)
	if err != nil {
		return nil, err
	}
	read := chain.NewReadProviders().Get(rt.Key, readURL)

	// Acting wallet.
	walletName := flagWall
	if walletName == "" {
		walletName = cfg.DefaultWallet
	}
	mgr := walletManager()
	var w *wallet.Wallet
	if walletName != "" {
		w, err = mgr.Get(walletName)
		if err != nil {
			return nil, fmt.Errorf("wallet %q not found — add it with: vaultctl wallet add", walletName)
		}
	} else {
		w = mgr.Default()
	}
	if w == nil && needSigner {
		return nil, fmt.Errorf("no wallet configured — add one with: vaultctl wallet add")
	}

	var signer *wallet.Signer
	if w != nil && w.Type == wallet.TypeSigning {
		signer = wallet.NewSigner(w, wallet.DefaultKeystore())
	} else if needSigner {
		return nil, fmt.Errorf("wallet %q is watch-only — add it with --key to sign transactions", w.Name)
	}

	opts := []backend.Option{backend.WithLogger(log)}
	if signer != nil {
		opts = append(opts, backend.WithSigner(signer))
	}
	be := backend.New(cfg.BackendURL, opts...)

	cache := registry.NewCache(be)
	reg, err := cache.Load(ctx, rt.Key)
	if err != nil {
		return nil, fmt.Errorf("loading contract registry: %w", err)
	}

	var exec *contract.Executor
	if signer != nil {
		exec = contract.NewExecutor(submit, read, signer, big.NewInt(rt.ChainID), config.TxConfirmTimeout)
	}

	return &session{
		Runtime:  rt,
		Submit:   submit,
		Read:     read,
		Wallet:   w,
		Signer:   signer,
		Exec:     exec,
		Backend:  be,
		Cache:    cache,
		Registry: reg,
	}, nil
}

// walletManager opens the wallet store under the config dir.
func walletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))))
}

// newOrchestrator wires the dual-write orchestrator with best-effort
// status and performance refreshers.
func newOrchestrator(s *session) *orchestrator.Orchestrator {
	refreshStatus := func(ctx context.Context, key chain.Key, vault string) error {
		_, err := s.Backend.GetVaultStatus(ctx, key, vault)
		return err
	}
	refreshPerf := func(ctx context.Context, key chain.Key, vault string) error {
		_, err := s.Backend.GetVaultPerformance(ctx, key, vault)
		return err
	}
	return orchestrator.New(s.Backend, s.Wallet.Address,
		orchestrator.WithLogger(log),
		orchestrator.WithRefresh(refreshStatus, refreshPerf),
	)
}

// readOnlyExecutor builds an executor that can serve eth_call reads for a
// watch-only session. Writes through it fail at signing.
func readOnlyExecutor(s *session) *contract.Executor {
	return contract.NewExecutor(s.Submit, s.Read, noSigner{}, nil, 0)
}

type noSigner struct{}

func (noSigner) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	return nil, fmt.Errorf("watch-only session cannot sign")
}
func (noSigner) Address() string { return "" }

// backendCtx returns a context bounded by the backend call timeout.
func backendCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), config.BackendTimeout)
}

// confirmOr returns true when the action should proceed: either --yes was
// passed or the user answered the prompt.
func confirmOr(prompt string) bool {
	if assumeYes {
		return true
	}
	return ui.Confirm(prompt)
}

// saveLastTx persists the most recent transaction for `vaultctl tx`.
// Failures are non-fatal; the hash was already printed.
func saveLastTx(action string, key chain.Key, res *contract.TxResult) {
	if res == nil {
		return
	}
	last := &config.LastTx{
		Action: action,
		Chain:  string(key),
		Hash:   res.TxHash,
		At:     time.Now().UTC().Format(time.RFC3339),
	}
	if res.Receipt != nil {
		last.Status = res.Receipt.Status
		last.BlockNumber = res.Receipt.BlockNumber
		last.GasUsed = res.Receipt.GasUsed
	}
	if err := cfg.SaveLastTx(last); err != nil {
		log.Warn().Err(err).Msg("saving last tx record")
	}
}

// reportDualWriteErr distinguishes "the chain transaction failed" from
// "the chain succeeded but the backend record was not saved". The second
// case still exits non-zero so scripts notice, but the user is told their
// funds moved.
func reportDualWriteErr(err error) error {
	var mirrorErr *orchestrator.MirrorWriteError
	if errors.As(err, &mirrorErr) {
		fmt.Println(ui.Warn("On-chain action succeeded — tx " + mirrorErr.TxHash))
		fmt.Println(ui.Warn("Backend record was NOT saved; history views will lag until it reconciles."))
	}
	return err
}

// printTxResult prints the standard confirmation block for a mined tx.
func printTxResult(res *contract.TxResult) {
	if res == nil {
		return
	}
	fmt.Println(ui.Success("Transaction confirmed"))
	fmt.Println(ui.Addr("Hash: " + res.TxHash))
	if res.Receipt != nil {
		fmt.Println(ui.Meta(fmt.Sprintf("Block #%d · gas used %d", res.Receipt.BlockNumber, res.Receipt.GasUsed)))
	}
}
