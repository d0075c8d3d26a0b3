package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/openvaults/vaultctl/internal/config"
)

// ErrVaultUnresolved is wrapped into the error returned when neither the
// deployment log nor the owner's vault list yields the new vault address.
var ErrVaultUnresolved = errors.New("cannot resolve vault address")

// Factory executes VaultFactory operations.
type Factory struct {
	exec *Executor
	addr common.Address
}

// NewFactory validates the factory address and builds the executor wrapper.
func NewFactory(exec *Executor, factoryAddr string) (*Factory, error) {
	addr, err := parseAddress("vaultFactory", factoryAddr)
	if err != nil {
		return nil, err
	}
	return &Factory{exec: exec, addr: addr}, nil
}

// CreateVault deploys a per-user vault for the given strategy id. The new
// vault address is recovered from the VaultCreated log when possible, and
// from the owner's vault list otherwise; the Resolution tags which path
// produced it. An empty list after a missing log is an error: the
// transaction mined, but the address cannot be determined.
func (f *Factory) CreateVault(strategyID string) (*TxResult, Resolution, error) {
	id, err := parseUintN("strategyId", strategyID, 256)
	if err != nil {
		return nil, Resolution{}, err
	}

	res, err := f.exec.execute(f.addr, calldata(sigCreateClientVault, argUint(id)), config.GasLimitFactoryCall)
	if err != nil {
		return res, Resolution{}, err
	}

	if vault, ok := f.vaultFromLogs(res); ok {
		return res, resolved(vault), nil
	}

	// Best-effort recovery: the factory appends new vaults, so the last
	// entry of the owner's list is the one just created.
	vaults, listErr := f.VaultsByOwner(f.exec.From())
	if listErr != nil {
		r := unresolved(fmt.Errorf("%w: reading vault list: %v", ErrVaultUnresolved, listErr))
		return res, r, r.Err
	}
	if len(vaults) == 0 {
		r := unresolved(fmt.Errorf("%w: owner has no vaults after creation (tx %s)", ErrVaultUnresolved, res.TxHash))
		return res, r, r.Err
	}
	return res, fellBack(vaults[len(vaults)-1].Hex()), nil
}

// vaultFromLogs scans the receipt for the factory's VaultCreated event and
// decodes the vault address from its data.
func (f *Factory) vaultFromLogs(res *TxResult) (string, bool) {
	if res.Receipt == nil {
		return "", false
	}
	for _, log := range res.Receipt.Logs {
		if !strings.EqualFold(log.Address, f.addr.Hex()) {
			continue
		}
		if len(log.Topics) == 0 || !strings.EqualFold(log.Topics[0], topicVaultCreated) {
			continue
		}
		words, err := resultWords(log.Data)
		if err != nil || len(words) < 1 {
			continue
		}
		return wordToAddress(words[0]).Hex(), true
	}
	return "", false
}

// VaultsByOwner reads the owner's full vault list from the factory.
func (f *Factory) VaultsByOwner(owner string) ([]common.Address, error) {
	ownerAddr, err := parseAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	out, err := f.exec.callRead(f.addr, calldata(sigGetVaultsByOwner, argAddress(ownerAddr)))
	if err != nil {
		return nil, fmt.Errorf("reading vaults by owner: %w", err)
	}
	return decodeAddressSlice(out)
}

// SetExecutor updates the factory's default automation executor (admin).
func (f *Factory) SetExecutor(executor string) (*TxResult, error) {
	addr, err := parseAddress("executor", executor)
	if err != nil {
		return nil, err
	}
	return f.exec.execute(f.addr, calldata(sigSetExecutor, argAddress(addr)), config.GasLimitVaultCall)
}

// SetFeeCollector updates the factory's fee collector (admin).
func (f *Factory) SetFeeCollector(collector string) (*TxResult, error) {
	addr, err := parseAddress("feeCollector", collector)
	if err != nil {
		return nil, err
	}
	return f.exec.execute(f.addr, calldata(sigSetFeeCollector, argAddress(addr)), config.GasLimitVaultCall)
}

// SetDefaults updates the factory's default vault parameters (admin).
func (f *Factory) SetDefaults(cooldownSec, maxSlippageBps string, allowSwap bool) (*TxResult, error) {
	cooldown, err := parseUint32Field("cooldownSec", cooldownSec)
	if err != nil {
		return nil, err
	}
	slippage, err := parseUint24Field("maxSlippageBps", maxSlippageBps)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetDefaults, argUint(cooldown), argUint(slippage), argBool(allowSwap))
	return f.exec.execute(f.addr, data, config.GasLimitVaultCall)
}
