// Package orchestrator sequences the dual-write pattern: an on-chain
// mutation committed first, then mirrored into the backend's off-chain
// record store. The chain is the single source of truth for "did anything
// happen"; the mirror exists only so the action is queryable later.
//
// Guarantees: the mirror write is never attempted before the chain
// transaction confirms. NOT guaranteed: chain changed ⇒ mirror written —
// there is no outbox or retry; a failed mirror write surfaces as a
// MirrorWriteError carrying the tx hash and reconciliation is a backend
// responsibility.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/openvaults/vaultctl/internal/backend"
	"github.com/openvaults/vaultctl/internal/chain"
	"github.com/openvaults/vaultctl/internal/contract"
)

// ErrActionInFlight is returned when the same action on the same target is
// already running in this process.
var ErrActionInFlight = errors.New("action already in flight for this target")

// ErrMirrorWrite tags mirror-write failures for errors.Is.
var ErrMirrorWrite = errors.New("mirror write failed")

// MirrorWriteError reports that the on-chain action succeeded but the
// backend record was not saved. Distinct from transaction errors: the user
// is told the chain state changed and manual follow-up is needed.
type MirrorWriteError struct {
	TxHash string
	Err    error
}

func (e *MirrorWriteError) Error() string {
	return fmt.Sprintf("on-chain action succeeded (tx %s) but the backend record was not saved: %v", e.TxHash, e.Err)
}

func (e *MirrorWriteError) Unwrap() error { return ErrMirrorWrite }

// Action kinds, used for the per-target in-flight lock.
type Action string

const (
	ActionDeposit          Action = "deposit"
	ActionWithdraw         Action = "withdraw"
	ActionHarvestConfig    Action = "daily-harvest"
	ActionCompoundConfig   Action = "compound"
	ActionRewardSwapConfig Action = "reward-swap"
	ActionCreateVault      Action = "create-vault"
)

// VaultOps is the on-chain side of vault dual writes.
// *contract.Vault satisfies it.
type VaultOps interface {
	Address() common.Address
	Deposit(token, amountHuman string) (*contract.DepositResult, error)
	ExitAndWithdrawAll(recipient string, tokens []string) (*contract.TxResult, []common.Address, error)
	SetDailyHarvestConfig(enabled bool, cooldownSec string) (*contract.TxResult, error)
	SetCompoundConfig(enabled bool, cooldownSec string) (*contract.TxResult, error)
	SetRewardSwapConfig(enabled bool, rewardToken, outToken, poolFee string) (*contract.TxResult, error)
}

// FactoryOps is the on-chain side of vault creation.
// *contract.Factory satisfies it.
type FactoryOps interface {
	CreateVault(strategyID string) (*contract.TxResult, contract.Resolution, error)
}

// Mirror is the backend side of dual writes. *backend.Client satisfies it.
type Mirror interface {
	RecordDeposit(ctx context.Context, m *backend.DepositMirror) error
	RecordWithdraw(ctx context.Context, m *backend.WithdrawMirror) error
	RecordConfigChange(ctx context.Context, kind string, m *backend.ConfigMirror) error
	RecordVaultCreated(ctx context.Context, m *backend.VaultCreatedMirror) error
}

// RefreshFunc re-reads one dependent view after a successful dual write.
type RefreshFunc func(ctx context.Context, key chain.Key, vault string) error

// Orchestrator runs dual-write actions. One instance per process; the
// in-flight lock is in-process only and does not protect against other
// tabs or machines.
type Orchestrator struct {
	mirror Mirror
	owner  string
	log    zerolog.Logger

	refreshers []RefreshFunc

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRefresh registers best-effort view refreshers run after a successful
// mirror write. Their errors are logged and dropped: a failed refresh must
// not overwrite the primary action's success.
func WithRefresh(fns ...RefreshFunc) Option {
	return func(o *Orchestrator) {
		o.refreshers = append(o.refreshers, fns...)
	}
}

// WithLogger sets the debug logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New creates an Orchestrator. owner is the acting wallet address recorded
// in every mirror payload.
func New(mirror Mirror, owner string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		mirror:   mirror,
		owner:    owner,
		log:      zerolog.Nop(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// begin acquires the per-(target, action) lock. The returned release must
// run even on failure paths.
func (o *Orchestrator) begin(target string, action Action) (func(), error) {
	key := target + "|" + string(action)
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[key]; busy {
		return nil, fmt.Errorf("%w: %s on %s", ErrActionInFlight, action, target)
	}
	o.inflight[key] = struct{}{}
	return func() {
		o.mu.Lock()
		delete(o.inflight, key)
		o.mu.Unlock()
	}, nil
}

// Deposit transfers tokens into the vault on-chain, then mirrors the event.
func (o *Orchestrator) Deposit(ctx context.Context, key chain.Key, vault VaultOps, token, amountHuman string) (*contract.DepositResult, error) {
	release, err := o.begin(vault.Address().Hex(), ActionDeposit)
	if err != nil {
		return nil, err
	}
	defer release()

	// On-chain first. Validation failures and reverts end the whole
	// operation here; the mirror is never touched.
	res, err := vault.Deposit(token, amountHuman)
	if err != nil {
		return nil, err
	}
	o.log.Debug().Str("tx", res.TxHash).Msg("deposit confirmed on-chain")

	m := &backend.DepositMirror{
		Chain:       key,
		Vault:       vault.Address().Hex(),
		Owner:       o.owner,
		Token:       res.Token.Hex(),
		AmountHuman: amountHuman,
		AmountRaw:   res.AmountRaw.String(),
		Decimals:    res.Decimals,
		TxHash:      res.TxHash,
		BlockNumber: blockNumber(res.TxResult),
	}
	if err := o.mirror.RecordDeposit(ctx, m); err != nil {
		return res, &MirrorWriteError{TxHash: res.TxHash, Err: err}
	}

	o.refresh(ctx, key, vault.Address().Hex())
	return res, nil
}

// Withdraw exits the position and withdraws all holdings on-chain, then
// mirrors the event.
func (o *Orchestrator) Withdraw(ctx context.Context, key chain.Key, vault VaultOps, recipient string, tokens []string) (*contract.TxResult, error) {
	release, err := o.begin(vault.Address().Hex(), ActionWithdraw)
	if err != nil {
		return nil, err
	}
	defer release()

	res, tokenAddrs, err := vault.ExitAndWithdrawAll(recipient, tokens)
	if err != nil {
		return res, err
	}
	o.log.Debug().Str("tx", res.TxHash).Msg("withdraw confirmed on-chain")

	tokenHexes := make([]string, len(tokenAddrs))
	for i, a := range tokenAddrs {
		tokenHexes[i] = a.Hex()
	}
	m := &backend.WithdrawMirror{
		Chain:       key,
		Vault:       vault.Address().Hex(),
		Owner:       o.owner,
		To:          recipient,
		Tokens:      tokenHexes,
		TxHash:      res.TxHash,
		BlockNumber: blockNumber(res),
	}
	if err := o.mirror.RecordWithdraw(ctx, m); err != nil {
		return res, &MirrorWriteError{TxHash: res.TxHash, Err: err}
	}

	o.refresh(ctx, key, vault.Address().Hex())
	return res, nil
}

// SetDailyHarvestConfig updates the harvest schedule on-chain, then
// mirrors it.
func (o *Orchestrator) SetDailyHarvestConfig(ctx context.Context, key chain.Key, vault VaultOps, enabled bool, cooldownSec string) (*contract.TxResult, error) {
	return o.configChange(ctx, key, vault, ActionHarvestConfig, func() (*contract.TxResult, error) {
		return vault.SetDailyHarvestConfig(enabled, cooldownSec)
	}, &backend.ConfigMirror{Enabled: enabled, CooldownSec: cooldownSec})
}

// SetCompoundConfig updates the compound schedule on-chain, then mirrors it.
func (o *Orchestrator) SetCompoundConfig(ctx context.Context, key chain.Key, vault VaultOps, enabled bool, cooldownSec string) (*contract.TxResult, error) {
	return o.configChange(ctx, key, vault, ActionCompoundConfig, func() (*contract.TxResult, error) {
		return vault.SetCompoundConfig(enabled, cooldownSec)
	}, &backend.ConfigMirror{Enabled: enabled, CooldownSec: cooldownSec})
}

// SetRewardSwapConfig updates the reward-swap route on-chain, then
// mirrors it.
func (o *Orchestrator) SetRewardSwapConfig(ctx context.Context, key chain.Key, vault VaultOps, enabled bool, rewardToken, outToken, poolFee string) (*contract.TxResult, error) {
	return o.configChange(ctx, key, vault, ActionRewardSwapConfig, func() (*contract.TxResult, error) {
		return vault.SetRewardSwapConfig(enabled, rewardToken, outToken, poolFee)
	}, &backend.ConfigMirror{Enabled: enabled, RewardToken: rewardToken, OutToken: outToken, PoolFee: poolFee})
}

func (o *Orchestrator) configChange(ctx context.Context, key chain.Key, vault VaultOps, action Action, run func() (*contract.TxResult, error), m *backend.ConfigMirror) (*contract.TxResult, error) {
	release, err := o.begin(vault.Address().Hex(), action)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := run()
	if err != nil {
		return res, err
	}
	o.log.Debug().Str("tx", res.TxHash).Str("action", string(action)).Msg("config change confirmed on-chain")

	m.Chain = key
	m.Vault = vault.Address().Hex()
	m.Owner = o.owner
	m.TxHash = res.TxHash
	m.BlockNumber = blockNumber(res)
	if err := o.mirror.RecordConfigChange(ctx, string(action), m); err != nil {
		return res, &MirrorWriteError{TxHash: res.TxHash, Err: err}
	}

	o.refresh(ctx, key, vault.Address().Hex())
	return res, nil
}

// CreateVault deploys a vault through the factory, then mirrors the
// deployment. The mirror records whether the address was log-resolved or
// list-recovered.
func (o *Orchestrator) CreateVault(ctx context.Context, key chain.Key, factory FactoryOps, strategyID string) (*contract.TxResult, contract.Resolution, error) {
	release, err := o.begin("factory:"+string(key), ActionCreateVault)
	if err != nil {
		return nil, contract.Resolution{}, err
	}
	defer release()

	res, vaultRes, err := factory.CreateVault(strategyID)
	if err != nil {
		return res, vaultRes, err
	}
	o.log.Debug().Str("tx", res.TxHash).Str("vault", vaultRes.Value).Str("resolution", vaultRes.State.String()).Msg("vault created on-chain")

	m := &backend.VaultCreatedMirror{
		Chain:       key,
		Vault:       vaultRes.Value,
		Owner:       o.owner,
		StrategyID:  strategyID,
		TxHash:      res.TxHash,
		BlockNumber: blockNumber(res),
		Resolution:  vaultRes.State.String(),
	}
	if err := o.mirror.RecordVaultCreated(ctx, m); err != nil {
		return res, vaultRes, &MirrorWriteError{TxHash: res.TxHash, Err: err}
	}

	o.refresh(ctx, key, vaultRes.Value)
	return res, vaultRes, nil
}

// refresh runs the registered view refreshers concurrently, best effort.
func (o *Orchestrator) refresh(ctx context.Context, key chain.Key, vault string) {
	if len(o.refreshers) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range o.refreshers {
		fn := fn
		g.Go(func() error {
			if err := fn(gctx, key, vault); err != nil {
				o.log.Debug().Err(err).Msg("view refresh failed")
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // refreshers never return errors upward
}

func blockNumber(res *contract.TxResult) uint64 {
	if res == nil || res.Receipt == nil {
		return 0
	}
	return res.Receipt.BlockNumber
}
