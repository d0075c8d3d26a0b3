package backend

import "net/url"

func queryValues(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

// TokenTransfer is one parsed ERC-20 movement inside a user event.
type TokenTransfer struct {
	Token     string `json:"token"`
	From      string `json:"from"`
	To        string `json:"to"`
	AmountRaw string `json:"amountRaw"`
}

// UserEvent is the off-chain mirror record of a deposit or withdrawal.
// Non-authoritative: it exists purely for history queries.
type UserEvent struct {
	ID          string          `json:"id"`
	Vault       string          `json:"vault"`
	Chain       string          `json:"chain"`
	EventType   string          `json:"eventType"` // "deposit" | "withdraw"
	Owner       string          `json:"owner"`
	Token       string          `json:"token,omitempty"`
	AmountHuman string          `json:"amountHuman,omitempty"`
	AmountRaw   string          `json:"amountRaw,omitempty"`
	Decimals    int             `json:"decimals,omitempty"`
	To          string          `json:"to,omitempty"`
	Transfers   []TokenTransfer `json:"transfers,omitempty"`
	TxHash      string          `json:"txHash"`
	BlockNumber uint64          `json:"blockNumber,omitempty"`
	TsMs        int64           `json:"tsMs"`
	TsISO       string          `json:"tsIso"`
}

// EventPage is one page of a user's event history.
type EventPage struct {
	Events  []UserEvent `json:"events"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// HoldingBreakdown is one token line of a vault's holdings.
type HoldingBreakdown struct {
	Token       string `json:"token"`
	Symbol      string `json:"symbol"`
	AmountHuman string `json:"amountHuman"`
	AmountRaw   string `json:"amountRaw"`
	ValueUSD    string `json:"valueUsd"`
}

// VaultStatus is the backend's aggregated live view of a vault.
type VaultStatus struct {
	Vault           string             `json:"vault"`
	Chain           string             `json:"chain"`
	Pool            string             `json:"pool"`
	Token0          string             `json:"token0"`
	Token1          string             `json:"token1"`
	CurrentTick     int32              `json:"currentTick"`
	Price           string             `json:"price"`
	TickLower       int32              `json:"tickLower"`
	TickUpper       int32              `json:"tickUpper"`
	InRange         bool               `json:"inRange"`
	UncollectedFee0 string             `json:"uncollectedFee0"`
	UncollectedFee1 string             `json:"uncollectedFee1"`
	Holdings        []HoldingBreakdown `json:"holdings"`
	Staked          bool               `json:"staked"`
}

// CashflowEntry is one dated in/outflow in a vault's performance history.
type CashflowEntry struct {
	TsISO     string `json:"tsIso"`
	Kind      string `json:"kind"` // "deposit" | "withdraw"
	Token     string `json:"token"`
	AmountUSD string `json:"amountUsd"`
	TxHash    string `json:"txHash"`
}

// Episode is one open→exit position lifetime.
type Episode struct {
	StartISO  string `json:"startIso"`
	EndISO    string `json:"endIso,omitempty"`
	ProfitUSD string `json:"profitUsd"`
	Open      bool   `json:"open"`
}

// VaultPerformance is the backend's accounting view of a vault.
type VaultPerformance struct {
	Vault        string          `json:"vault"`
	Chain        string          `json:"chain"`
	Method       string          `json:"method"` // accounting method the figures assume
	ValuationUSD string          `json:"valuationUsd"`
	ProfitUSD    string          `json:"profitUsd"`
	APR          string          `json:"apr"`
	APY          string          `json:"apy"`
	Cashflows    []CashflowEntry `json:"cashflows"`
	Episodes     []Episode       `json:"episodes"`
}

// StrategyParams is the backend's eventually-consistent record of a
// strategy's off-chain parameters, keyed by (chain, owner, strategyId).
type StrategyParams struct {
	Chain      string `json:"chain"`
	Owner      string `json:"owner"`
	StrategyID string `json:"strategyId"`
	Name       string `json:"name,omitempty"`
	PoolFee    string `json:"poolFee,omitempty"`
	TickWidth  int32  `json:"tickWidth,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// DexPool is one pool in the backend's dex registry listing.
type DexPool struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Token0  string `json:"token0"`
	Token1  string `json:"token1"`
	Fee     string `json:"fee"`
	Dex     string `json:"dex"`
}
