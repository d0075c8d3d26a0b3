package contract

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/openvaults/vaultctl/internal/config"
)

// VaultRecord is the read-derived view of a deployed ClientVault. The
// contract is the source of truth; this is never cached across actions.
type VaultRecord struct {
	Address           common.Address
	Owner             common.Address
	Executor          common.Address
	Adapter           common.Address
	DexRouter         common.Address
	FeeCollector      common.Address
	StrategyID        *big.Int
	Token0            common.Address
	Token1            common.Address
	AutomationEnabled bool
	CooldownSec       uint32
	MaxSlippageBps    uint32
	AllowSwap         bool
	PositionTokenID   *big.Int
	LastRebalanceTs   uint64
}

// DepositResult augments the transaction result with the converted amount,
// which the mirror write needs.
type DepositResult struct {
	*TxResult
	Token     common.Address
	AmountRaw *big.Int
	Decimals  int
}

// Vault executes ClientVault operations.
type Vault struct {
	exec *Executor
	addr common.Address
}

// NewVault validates the vault address.
func NewVault(exec *Executor, vaultAddr string) (*Vault, error) {
	addr, err := parseAddress("vault", vaultAddr)
	if err != nil {
		return nil, err
	}
	return &Vault{exec: exec, addr: addr}, nil
}

// Address returns the vault's address.
func (v *Vault) Address() common.Address { return v.addr }

// Deposit transfers amountHuman of token into the vault. The token's
// declared decimals are read on-chain and the human amount is converted to
// raw units before submission.
func (v *Vault) Deposit(token, amountHuman string) (*DepositResult, error) {
	tokenAddr, err := parseAddress("token", token)
	if err != nil {
		return nil, err
	}
	// Syntactic amount check before any network call.
	if err := checkAmountSyntax(amountHuman); err != nil {
		return nil, err
	}

	decimals, err := v.exec.read.TokenDecimals(tokenAddr.Hex())
	if err != nil {
		return nil, fmt.Errorf("reading token decimals: %w", err)
	}
	raw, err := ToRawAmount(amountHuman, decimals)
	if err != nil {
		return nil, err
	}

	data := calldata(sigTransfer, argAddress(v.addr), argUint(raw))
	res, err := v.exec.execute(tokenAddr, data, config.GasLimitTokenTransfer)
	if err != nil {
		return nil, err
	}
	return &DepositResult{TxResult: res, Token: tokenAddr, AmountRaw: raw, Decimals: decimals}, nil
}

// OpenInitialPosition opens the vault's first liquidity position between
// the given ticks.
func (v *Vault) OpenInitialPosition(tickLower, tickUpper int32) (*TxResult, error) {
	if err := checkTickRange(tickLower, tickUpper); err != nil {
		return nil, err
	}
	data := calldata(sigOpenInitialPosition, argInt24(tickLower), argInt24(tickUpper))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// RebalanceWithCaps closes and reopens the position between new ticks,
// bounding how much of each token may be deployed.
func (v *Vault) RebalanceWithCaps(tickLower, tickUpper int32, cap0, cap1 string) (*TxResult, error) {
	if err := checkTickRange(tickLower, tickUpper); err != nil {
		return nil, err
	}
	c0, err := parseUintN("cap0", cap0, 256)
	if err != nil {
		return nil, err
	}
	c1, err := parseUintN("cap1", cap1, 256)
	if err != nil {
		return nil, err
	}
	data := calldata(sigRebalanceWithCaps, argInt24(tickLower), argInt24(tickUpper), argUint(c0), argUint(c1))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// CollectToVault collects uncollected position fees into the vault.
func (v *Vault) CollectToVault() (*TxResult, error) {
	return v.exec.execute(v.addr, calldata(sigCollectToVault), config.GasLimitVaultCall)
}

// ExitAndWithdrawAll closes the position and sends the vault's full
// holdings of the listed tokens to the recipient.
func (v *Vault) ExitAndWithdrawAll(recipient string, tokens []string) (*TxResult, []common.Address, error) {
	to, err := parseAddress("recipient", recipient)
	if err != nil {
		return nil, nil, err
	}
	tokenAddrs := make([]common.Address, 0, len(tokens))
	for i, t := range tokens {
		a, err := parseAddress(fmt.Sprintf("tokens[%d]", i), t)
		if err != nil {
			return nil, nil, err
		}
		tokenAddrs = append(tokenAddrs, a)
	}
	data := calldata(sigExitAndWithdrawAll, argAddress(to), argAddressSlice(tokenAddrs))
	res, err := v.exec.execute(v.addr, data, config.GasLimitVaultCall)
	return res, tokenAddrs, err
}

// Stake stakes the position NFT into the adapter's farm.
func (v *Vault) Stake() (*TxResult, error) {
	return v.exec.execute(v.addr, calldata(sigStake), config.GasLimitVaultCall)
}

// Unstake withdraws the position NFT from the farm.
func (v *Vault) Unstake() (*TxResult, error) {
	return v.exec.execute(v.addr, calldata(sigUnstake), config.GasLimitVaultCall)
}

// ClaimRewards claims accrued farm rewards into the vault.
func (v *Vault) ClaimRewards() (*TxResult, error) {
	return v.exec.execute(v.addr, calldata(sigClaimRewards), config.GasLimitVaultCall)
}

// SwapExactIn swaps an exact input amount through the configured Pancake
// router. priceLimit is the uint160 sqrt price limit; "0" disables it.
func (v *Vault) SwapExactIn(tokenIn, tokenOut, poolFee, amountIn, minOut, priceLimit string) (*TxResult, error) {
	in, err := parseAddress("tokenIn", tokenIn)
	if err != nil {
		return nil, err
	}
	out, err := parseAddress("tokenOut", tokenOut)
	if err != nil {
		return nil, err
	}
	fee, err := parseUint24Field("poolFee", poolFee)
	if err != nil {
		return nil, err
	}
	amt, err := parseUintN("amountIn", amountIn, 256)
	if err != nil {
		return nil, err
	}
	min, err := parseUintN("minOut", minOut, 256)
	if err != nil {
		return nil, err
	}
	limit, err := parseUint160Field("priceLimit", priceLimit)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSwapExactInPancake,
		argAddress(in), argAddress(out), argUint(fee),
		argUint(amt), argUint(min), argUint(limit))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// SetAutomationConfig updates the vault's automation parameters.
func (v *Vault) SetAutomationConfig(enabled bool, cooldownSec, maxSlippageBps string, allowSwap bool) (*TxResult, error) {
	cooldown, err := parseUint32Field("cooldownSec", cooldownSec)
	if err != nil {
		return nil, err
	}
	slippage, err := parseUint24Field("maxSlippageBps", maxSlippageBps)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetAutomationConfig, argBool(enabled), argUint(cooldown), argUint(slippage), argBool(allowSwap))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// SetDailyHarvestConfig updates the daily fee-harvest schedule.
func (v *Vault) SetDailyHarvestConfig(enabled bool, cooldownSec string) (*TxResult, error) {
	cooldown, err := parseUint32Field("cooldownSec", cooldownSec)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetDailyHarvestConfig, argBool(enabled), argUint(cooldown))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// SetCompoundConfig updates the auto-compound schedule.
func (v *Vault) SetCompoundConfig(enabled bool, cooldownSec string) (*TxResult, error) {
	cooldown, err := parseUint32Field("cooldownSec", cooldownSec)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetCompoundConfig, argBool(enabled), argUint(cooldown))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// SetRewardSwapConfig updates the reward-swap route.
func (v *Vault) SetRewardSwapConfig(enabled bool, rewardToken, outToken, poolFee string) (*TxResult, error) {
	reward, err := parseAddress("rewardToken", rewardToken)
	if err != nil {
		return nil, err
	}
	out, err := parseAddress("outToken", outToken)
	if err != nil {
		return nil, err
	}
	fee, err := parseUint24Field("poolFee", poolFee)
	if err != nil {
		return nil, err
	}
	data := calldata(sigSetRewardSwapConfig, argBool(enabled), argAddress(reward), argAddress(out), argUint(fee))
	return v.exec.execute(v.addr, data, config.GasLimitVaultCall)
}

// Record reads the vault's full state. One eth_call per getter; the result
// is valid for a single render and must be re-read after any mutation.
func (v *Vault) Record() (*VaultRecord, error) {
	rec := &VaultRecord{Address: v.addr}

	addrFields := []struct {
		sig string
		dst *common.Address
	}{
		{sigOwner, &rec.Owner},
		{sigExecutorAddr, &rec.Executor},
		{sigAdapter, &rec.Adapter},
		{sigDexRouter, &rec.DexRouter},
		{sigFeeCollectorAddr, &rec.FeeCollector},
		{sigToken0, &rec.Token0},
		{sigToken1, &rec.Token1},
	}
	for _, f := range addrFields {
		words, err := v.readWords(f.sig)
		if err != nil {
			return nil, err
		}
		*f.dst = wordToAddress(words[0])
	}

	words, err := v.readWords(sigStrategyID)
	if err != nil {
		return nil, err
	}
	rec.StrategyID = wordToBig(words[0])

	words, err = v.readWords(sigAutomationEnabled)
	if err != nil {
		return nil, err
	}
	rec.AutomationEnabled = wordToBool(words[0])

	words, err = v.readWords(sigCooldownSec)
	if err != nil {
		return nil, err
	}
	rec.CooldownSec = uint32(wordToBig(words[0]).Uint64())

	words, err = v.readWords(sigMaxSlippageBps)
	if err != nil {
		return nil, err
	}
	rec.MaxSlippageBps = uint32(wordToBig(words[0]).Uint64())

	words, err = v.readWords(sigAllowSwap)
	if err != nil {
		return nil, err
	}
	rec.AllowSwap = wordToBool(words[0])

	words, err = v.readWords(sigPositionTokenID)
	if err != nil {
		return nil, err
	}
	rec.PositionTokenID = wordToBig(words[0])

	words, err = v.readWords(sigLastRebalanceTs)
	if err != nil {
		return nil, err
	}
	rec.LastRebalanceTs = wordToBig(words[0]).Uint64()

	return rec, nil
}

func (v *Vault) readWords(sig string) ([][]byte, error) {
	out, err := v.exec.callRead(v.addr, calldata(sig))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sig, err)
	}
	words, err := resultWords(out)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty result for %s", sig)
	}
	return words, nil
}

// checkTickRange rejects an empty or inverted tick range before the
// transaction is paid for.
func checkTickRange(lower, upper int32) error {
	if lower >= upper {
		return fmt.Errorf("tickLower %d must be strictly below tickUpper %d", lower, upper)
	}
	return nil
}

// ParseTick parses a CLI tick argument into a signed 24-bit value.
func ParseTick(field, value string) (int32, error) {
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < -8388608 || n > 8388607 {
		return 0, &InvalidNumberError{Field: field, Value: value, Bits: 24}
	}
	return int32(n), nil
}
