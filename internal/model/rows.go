package model

// Transfer is one token transfer row as returned by the etherscan
// compatible indexer API. All numeric fields arrive as decimal strings.
type Transfer struct {
	Hash            string `json:"hash"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	ContractAddress string `json:"contractAddress"`
	TokenName       string `json:"tokenName,omitempty"`
	TokenSymbol     string `json:"tokenSymbol,omitempty"`
	TokenDecimal    string `json:"tokenDecimal,omitempty"`
}

// Holder is one token holder row: address plus balance in base units as
// a decimal string.
type Holder struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

// TokenInfo is the indexer's token metadata record.
type TokenInfo struct {
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	Decimals       string `json:"decimals"`
	TotalSupply    string `json:"totalSupply"`
	HoldersCount   string `json:"holdersCount,omitempty"`
	TransfersCount string `json:"transfersCount,omitempty"`
}

// PoolOverview is the live pair state shown by the trading view.
type PoolOverview struct {
	ReserveBase       string  `json:"reserve_base"`
	ReserveQuote      string  `json:"reserve_quote"`
	PriceQuotePerBase float64 `json:"price_quote_per_base"`
	PriceBasePerQuote float64 `json:"price_base_per_quote"`
}
