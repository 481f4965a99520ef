package config

import "fmt"

const (
	DefaultRPCURL      = "https://api.mainnet-beta.solana.com"
	DefaultJupiterBase = "https://quote-api.jup.ag"
)

// Dex defines network endpoints and defaults for decentralized execution.
type Dex struct {
	Chain       string `yaml:"chain"`
	RpcURL      string `yaml:"rpc_url"`
	Commitment  string `yaml:"commitment"`   // processed|confirmed|finalized
	JupiterBase string `yaml:"jupiter_base"` // https://quote-api.jup.ag
}

// CommitmentLevel validates the configured commitment, defaulting to confirmed.
func (d Dex) CommitmentLevel() (string, error) {
	switch d.Commitment {
	case "":
		return "confirmed", nil
	case "processed", "confirmed", "finalized":
		return d.Commitment, nil
	default:
		return "", fmt.Errorf("invalid commitment %q", d.Commitment)
	}
}

// Wallet stores env-backed signing material.
type Wallet struct {
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}

// Configured reports whether a signing key is present.
func (w Wallet) Configured() bool { return w.PrivateKeyBase58 != "" }
