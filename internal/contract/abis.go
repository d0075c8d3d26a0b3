package contract

// Canonical signatures for the protocol contracts. Addresses come from the
// backend contract registry, never from here.

// StrategyRegistry
const (
	sigRegisterStrategy      = "registerStrategy(address,address,address,address,string,string)"
	sigGetStrategyIdsByOwner = "getStrategyIdsByOwner(address)"
	sigGetStrategy           = "getStrategy(uint256)"
)

// VaultFactory
const (
	sigCreateClientVault = "createClientVault(uint256)"
	sigGetVaultsByOwner  = "getVaultsByOwner(address)"
	sigSetExecutor       = "setExecutor(address)"
	sigSetFeeCollector   = "setFeeCollector(address)"
	sigSetDefaults       = "setDefaults(uint32,uint24,bool)"
)

// ClientVault
const (
	sigOpenInitialPosition   = "openInitialPosition(int24,int24)"
	sigRebalanceWithCaps     = "rebalanceWithCaps(int24,int24,uint256,uint256)"
	sigCollectToVault        = "collectToVault()"
	sigExitAndWithdrawAll    = "exitPositionAndWithdrawAll(address,address[])"
	sigStake                 = "stake()"
	sigUnstake               = "unstake()"
	sigClaimRewards          = "claimRewards()"
	sigSwapExactInPancake    = "swapExactInPancake(address,address,uint24,uint256,uint256,uint160)"
	sigSetAutomationConfig   = "setAutomationConfig(bool,uint32,uint24,bool)"
	sigSetDailyHarvestConfig = "setDailyHarvestConfig(bool,uint32)"
	sigSetCompoundConfig     = "setCompoundConfig(bool,uint32)"
	sigSetRewardSwapConfig   = "setRewardSwapConfig(bool,address,address,uint24)"
)

// ClientVault view getters.
const (
	sigOwner             = "owner()"
	sigExecutorAddr      = "executor()"
	sigAdapter           = "adapter()"
	sigDexRouter         = "dexRouter()"
	sigFeeCollectorAddr  = "feeCollector()"
	sigStrategyID        = "strategyId()"
	sigToken0            = "token0()"
	sigToken1            = "token1()"
	sigAutomationEnabled = "automationEnabled()"
	sigCooldownSec       = "cooldownSec()"
	sigMaxSlippageBps    = "maxSlippageBps()"
	sigAllowSwap         = "allowSwap()"
	sigPositionTokenID   = "positionTokenId()"
	sigLastRebalanceTs   = "lastRebalanceTs()"
)

// ProtocolFeeCollector / VaultFeeBuffer
const (
	sigSetAllowlisted = "setAllowlisted(address,bool)"
	sigIsAllowlisted  = "isAllowlisted(address)"
)

// ERC-20
const sigTransfer = "transfer(address,uint256)"

// Event topics used for identifier recovery.
var (
	topicVaultCreated       = eventTopic("VaultCreated(address,address,uint256)")
	topicStrategyRegistered = eventTopic("StrategyRegistered(address,uint256)")
)
