// Package eth adapts the core's ledger and wallet ports to an Ethereum
// JSON-RPC endpoint using go-ethereum. It is the only package that speaks
// wire formats; everything above it deals in domain types.
package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// Client bundles the RPC connection and the bound ledger contract.
type Client struct {
	rpc           *ethclient.Client
	contract      *bind.BoundContract
	contractAddr  common.Address
	requiredChain *big.Int
	log           zerolog.Logger
}

// Dial connects to the RPC endpoint and binds the ledger contract. It does
// not verify chain or contract state; call Probe for that.
func Dial(ctx context.Context, rpcURL, contractAddr string, requiredChain *big.Int, log zerolog.Logger) (*Client, error) {
	if !common.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("%w: contract address %q", domain.ErrNoContract, contractAddr)
	}

	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrNotConnected, rpcURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(ledgerABI))
	if err != nil {
		return nil, fmt.Errorf("parse ledger abi: %w", err)
	}

	addr := common.HexToAddress(contractAddr)
	return &Client{
		rpc:           rpc,
		contract:      bind.NewBoundContract(addr, parsed, rpc, rpc, rpc),
		contractAddr:  addr,
		requiredChain: requiredChain,
		log:           log,
	}, nil
}

// Probe verifies the connectivity preconditions every other operation
// depends on: the endpoint answers, the active chain is the required
// network, and contract code exists at the configured address. Each
// failure maps to its connectivity sentinel.
func (c *Client) Probe(ctx context.Context) error {
	chainID, err := c.rpc.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
	}
	if chainID.Cmp(c.requiredChain) != 0 {
		return fmt.Errorf("%w: chain %s, want %s", domain.ErrWrongNetwork, chainID, c.requiredChain)
	}

	code, err := c.rpc.CodeAt(ctx, c.contractAddr, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoContract, c.contractAddr.Hex())
	}
	return nil
}

// Close tears down the RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}
