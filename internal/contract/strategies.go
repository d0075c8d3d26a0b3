package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/openvaults/vaultctl/internal/config"
)

// ErrStrategyUnresolved mirrors ErrVaultUnresolved for strategy ids.
var ErrStrategyUnresolved = errors.New("cannot resolve strategy id")

// StrategyRecord is the on-chain registered strategy configuration.
type StrategyRecord struct {
	ID          *big.Int
	Adapter     common.Address
	DexRouter   common.Address
	Token0      common.Address
	Token1      common.Address
	Name        string
	Description string
	Active      bool
}

// StrategyRegistry executes strategy-registry operations.
type StrategyRegistry struct {
	exec *Executor
	addr common.Address
}

// NewStrategyRegistry validates the registry address.
func NewStrategyRegistry(exec *Executor, registryAddr string) (*StrategyRegistry, error) {
	addr, err := parseAddress("strategyFactory", registryAddr)
	if err != nil {
		return nil, err
	}
	return &StrategyRegistry{exec: exec, addr: addr}, nil
}

// Register registers a new strategy and recovers its assigned id from the
// StrategyRegistered log, falling back to the owner's id list.
func (r *StrategyRegistry) Register(adapter, dexRouter, token0, token1, name, description string) (*TxResult, Resolution, error) {
	adapterAddr, err := parseAddress("adapter", adapter)
	if err != nil {
		return nil, Resolution{}, err
	}
	routerAddr, err := parseAddress("dexRouter", dexRouter)
	if err != nil {
		return nil, Resolution{}, err
	}
	t0, err := parseAddress("token0", token0)
	if err != nil {
		return nil, Resolution{}, err
	}
	t1, err := parseAddress("token1", token1)
	if err != nil {
		return nil, Resolution{}, err
	}

	data := calldata(sigRegisterStrategy,
		argAddress(adapterAddr), argAddress(routerAddr),
		argAddress(t0), argAddress(t1),
		argString(name), argString(description))

	res, err := r.exec.execute(r.addr, data, config.GasLimitVaultCall)
	if err != nil {
		return res, Resolution{}, err
	}

	if id, ok := r.idFromLogs(res); ok {
		return res, resolved(id), nil
	}

	ids, listErr := r.IDsByOwner(r.exec.From())
	if listErr != nil {
		rr := unresolved(fmt.Errorf("%w: reading id list: %v", ErrStrategyUnresolved, listErr))
		return res, rr, rr.Err
	}
	if len(ids) == 0 {
		rr := unresolved(fmt.Errorf("%w: owner has no strategies after registration (tx %s)", ErrStrategyUnresolved, res.TxHash))
		return res, rr, rr.Err
	}
	return res, fellBack(ids[len(ids)-1].String()), nil
}

func (r *StrategyRegistry) idFromLogs(res *TxResult) (string, bool) {
	if res.Receipt == nil {
		return "", false
	}
	for _, log := range res.Receipt.Logs {
		if !strings.EqualFold(log.Address, r.addr.Hex()) {
			continue
		}
		if len(log.Topics) == 0 || !strings.EqualFold(log.Topics[0], topicStrategyRegistered) {
			continue
		}
		words, err := resultWords(log.Data)
		if err != nil || len(words) < 1 {
			continue
		}
		return wordToBig(words[0]).String(), true
	}
	return "", false
}

// IDsByOwner reads all strategy ids registered by owner.
func (r *StrategyRegistry) IDsByOwner(owner string) ([]*big.Int, error) {
	ownerAddr, err := parseAddress("owner", owner)
	if err != nil {
		return nil, err
	}
	out, err := r.exec.callRead(r.addr, calldata(sigGetStrategyIdsByOwner, argAddress(ownerAddr)))
	if err != nil {
		return nil, fmt.Errorf("reading strategy ids: %w", err)
	}
	return decodeBigSlice(out)
}

// Get reads a full strategy record by id.
func (r *StrategyRegistry) Get(strategyID string) (*StrategyRecord, error) {
	id, err := parseUintN("strategyId", strategyID, 256)
	if err != nil {
		return nil, err
	}
	out, err := r.exec.callRead(r.addr, calldata(sigGetStrategy, argUint(id)))
	if err != nil {
		return nil, fmt.Errorf("reading strategy %s: %w", strategyID, err)
	}

	words, err := resultWords(out)
	if err != nil {
		return nil, err
	}
	if len(words) < 7 {
		return nil, fmt.Errorf("strategy result too short: %d words", len(words))
	}

	name, err := decodeStringAt(out, 4)
	if err != nil {
		return nil, fmt.Errorf("decoding strategy name: %w", err)
	}
	desc, err := decodeStringAt(out, 5)
	if err != nil {
		return nil, fmt.Errorf("decoding strategy description: %w", err)
	}

	return &StrategyRecord{
		ID:          id,
		Adapter:     wordToAddress(words[0]),
		DexRouter:   wordToAddress(words[1]),
		Token0:      wordToAddress(words[2]),
		Token1:      wordToAddress(words[3]),
		Name:        name,
		Description: desc,
		Active:      wordToBool(words[6]),
	}, nil
}
