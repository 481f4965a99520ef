package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.opentelemetry.io/otel/attribute"

	"soltrader-go/internal/trace"
)

// Mints of the traded pair.
const (
	SOLMint  = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

const (
	LamportsPerSOL = 1_000_000_000
	USDCUnits      = 1_000_000

	sendMaxRetries = 3
)

// ErrNoSigner is returned by Swap when the client has no private key.
var ErrNoSigner = errors.New("no signing key configured")

type JupiterClient struct {
	Base        string
	RPC         *rpc.Client
	Owner       solana.PrivateKey
	Commit      rpc.CommitmentType
	Http        *http.Client
	ConfirmPoll time.Duration
}

// Quote is the subset of the Jupiter quote response the bot reads. The full
// response body is kept so it can be echoed back to /swap untouched.
type Quote struct {
	InputMint      string `json:"inputMint"`
	OutputMint     string `json:"outputMint"`
	InAmount       string `json:"inAmount"`
	OutAmount      string `json:"outAmount"`
	OtherAmount    string `json:"otherAmountThreshold"`
	SlippageBps    int    `json:"slippageBps"`
	RoutePlan      any    `json:"routePlan"`
	PriceImpactPct string `json:"priceImpactPct"`

	raw json.RawMessage
}

// MarshalJSON returns the original response when available.
func (q Quote) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	type plain Quote
	return json.Marshal(plain(q))
}

// OutUnits parses OutAmount as raw token units.
func (q *Quote) OutUnits() (uint64, error) {
	n, err := strconv.ParseUint(q.OutAmount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse outAmount %q: %w", q.OutAmount, err)
	}
	return n, nil
}

// ParseCommitment maps a config string onto an RPC commitment, defaulting to confirmed.
func ParseCommitment(commit string) rpc.CommitmentType {
	switch commit {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// NewJupiterClient builds a client. owner may be nil for quote-only use.
func NewJupiterClient(rpcURL, base string, owner solana.PrivateKey, commit string) *JupiterClient {
	return &JupiterClient{
		Base:        strings.TrimSuffix(base, "/"),
		RPC:         rpc.New(rpcURL),
		Owner:       owner,
		Commit:      ParseCommitment(commit),
		Http:        &http.Client{Timeout: 8 * time.Second},
		ConfirmPoll: time.Second,
	}
}

// GetQuote asks Jupiter how much outputMint amount (smallest units of inputMint) buys.
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (q *Quote, err error) {
	ctx, span := trace.StartSpan(ctx, "jupiter.quote",
		attribute.String("input_mint", inputMint),
		attribute.Int64("amount", int64(amount)),
	)
	defer func() { trace.End(span, err) }()

	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("slippageBps", strconv.Itoa(slippageBps))
	u := j.Base + "/v6/quote?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote: %w", err)
	}
	var out Quote
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	out.raw = body
	return &out, nil
}

// Swap builds the swap transaction for quote, signs it locally, submits it and
// waits until it reaches the client's commitment.
func (j *JupiterClient) Swap(ctx context.Context, quote *Quote) (sig solana.Signature, err error) {
	ctx, span := trace.StartSpan(ctx, "jupiter.swap")
	defer func() { trace.End(span, err) }()

	tx, err := j.BuildSignedSwap(ctx, quote)
	if err != nil {
		return sig, err
	}
	retries := uint(sendMaxRetries)
	sig, err = j.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: j.Commit,
		MaxRetries:          &retries,
	})
	if err != nil {
		return sig, fmt.Errorf("send: %w", err)
	}
	if err := j.Confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// BuildSignedSwap asks Jupiter for a ready-to-sign transaction and signs it with the owner key.
func (j *JupiterClient) BuildSignedSwap(ctx context.Context, quote *Quote) (*solana.Transaction, error) {
	if len(j.Owner) == 0 {
		return nil, ErrNoSigner
	}
	if quote == nil {
		return nil, errors.New("nil quote")
	}
	payload := map[string]any{
		"quoteResponse":             quote,
		"userPublicKey":             j.Owner.PublicKey().String(),
		"wrapAndUnwrapSol":          true,
		"dynamicComputeUnitLimit":   true,
		"prioritizationFeeLamports": "auto",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.Base+"/v6/swap", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"` // base64-encoded tx (unsigned)
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode swap response: %w", err)
	}
	if sr.SwapTransaction == "" {
		return nil, errors.New("jupiter swap returned no transaction")
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal tx: %w", err)
	}

	owner := j.Owner
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner.PublicKey()) {
			return &owner
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return tx, nil
}

// Confirm polls the signature status until it reaches the client commitment,
// the transaction fails, or ctx ends.
func (j *JupiterClient) Confirm(ctx context.Context, sig solana.Signature) error {
	poll := j.ConfirmPoll
	if poll <= 0 {
		poll = time.Second
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		res, err := j.RPC.GetSignatureStatuses(ctx, false, sig)
		if err == nil && res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if reached(status.ConfirmationStatus, j.Commit) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := map[rpc.ConfirmationStatusType]int{
		rpc.ConfirmationStatusProcessed: 1,
		rpc.ConfirmationStatusConfirmed: 2,
		rpc.ConfirmationStatusFinalized: 3,
	}
	need := 2
	switch want {
	case rpc.CommitmentProcessed:
		need = 1
	case rpc.CommitmentFinalized:
		need = 3
	}
	return rank[status] >= need
}
