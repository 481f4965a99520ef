package solana

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// LoadPrivateKey decodes a base58 secret key.
func LoadPrivateKey(b58 string) (solana.PrivateKey, error) {
	if b58 == "" {
		return nil, errors.New("private key not set")
	}
	return solana.PrivateKeyFromBase58(b58)
}

// WalletReader reads SOL and USDC balances of one owner.
type WalletReader struct {
	RPC    *rpc.Client
	Owner  solana.PublicKey
	Commit rpc.CommitmentType
}

// NewWalletReader builds a reader for owner against rpcURL.
func NewWalletReader(rpcURL string, owner solana.PublicKey, commit string) *WalletReader {
	return &WalletReader{RPC: rpc.New(rpcURL), Owner: owner, Commit: ParseCommitment(commit)}
}

// Address returns the owner in base58.
func (w *WalletReader) Address() string { return w.Owner.String() }

// SOLBalance returns the native balance in SOL.
func (w *WalletReader) SOLBalance(ctx context.Context) (float64, error) {
	res, err := w.RPC.GetBalance(ctx, w.Owner, w.Commit)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return float64(res.Value) / LamportsPerSOL, nil
}

// USDCBalance returns the balance of the owner's associated USDC account.
// A missing account surfaces as an error; callers treat it as zero.
func (w *WalletReader) USDCBalance(ctx context.Context) (float64, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(w.Owner, solana.MustPublicKeyFromBase58(USDCMint))
	if err != nil {
		return 0, fmt.Errorf("derive token account: %w", err)
	}
	res, err := w.RPC.GetTokenAccountBalance(ctx, ata, w.Commit)
	if err != nil {
		return 0, fmt.Errorf("get token balance: %w", err)
	}
	if res == nil || res.Value == nil {
		return 0, errors.New("empty token balance")
	}
	units, err := strconv.ParseUint(res.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse token amount: %w", err)
	}
	return float64(units) / USDCUnits, nil
}
