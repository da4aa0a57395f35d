package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI names accepted by Client.Call and Client.Submit.
const (
	ABIERC20   = "erc20"
	ABIToken   = "token"
	ABITrading = "trading"
	ABIPair    = "pair"
)

const erc20ABIJSON = `[
  {"inputs": [{"name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}], "name": "approve", "outputs": [{"type": "bool"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}], "name": "allowance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

// Carbon token extends ERC20 with metadata-carrying mints.
const tokenABIJSON = `[
  {"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}, {"name": "metadataRef", "type": "string"}], "name": "mint", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "getTotalMintRecords", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const tradingABIJSON = `[
  {"inputs": [{"name": "baseAmount", "type": "uint256"}, {"name": "quoteAmount", "type": "uint256"}], "name": "addLiquidity", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "getBalances", "outputs": [{"type": "uint256"}, {"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const pairABIJSON = `[
  {"inputs": [], "name": "getReserves", "outputs": [{"name": "reserve0", "type": "uint112"}, {"name": "reserve1", "type": "uint112"}, {"name": "blockTimestampLast", "type": "uint32"}], "stateMutability": "view", "type": "function"}
]`

var (
	abiRegistry     map[string]abi.ABI
	abiRegistryOnce sync.Once
	abiRegistryErr  error
)

func contractABI(name string) (abi.ABI, error) {
	abiRegistryOnce.Do(func() {
		sources := map[string]string{
			ABIERC20:   erc20ABIJSON,
			ABIToken:   tokenABIJSON,
			ABITrading: tradingABIJSON,
			ABIPair:    pairABIJSON,
		}
		abiRegistry = make(map[string]abi.ABI, len(sources))
		for key, src := range sources {
			parsed, err := abi.JSON(strings.NewReader(src))
			if err != nil {
				abiRegistryErr = fmt.Errorf("parse %s abi: %w", key, err)
				return
			}
			abiRegistry[key] = parsed
		}
	})
	if abiRegistryErr != nil {
		return abi.ABI{}, abiRegistryErr
	}
	parsed, ok := abiRegistry[name]
	if !ok {
		return abi.ABI{}, fmt.Errorf("unknown abi %q", name)
	}
	return parsed, nil
}
