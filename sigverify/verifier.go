// Package sigverify checks sign block signatures: ECDSA over secp256k1,
// DER-encoded, low-S, committing to the whole block hash.
package sigverify

import (
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SIGHASH_ALL is the hash type every sign block signature must declare.
const SIGHASH_ALL byte = 0x01

// Verifier holds verification policy only and is never mutated after
// construction.
type Verifier struct {
	requireLowS bool
}

// Option configures a Verifier built by New.
type Option func(*Verifier)

// AllowHighS disables the low-S rule. Consensus never does this; it exists
// for checking historical fixtures signed before the rule applied.
func AllowHighS() Option {
	return func(v *Verifier) { v.requireLowS = false }
}

func New(opts ...Option) *Verifier {
	v := &Verifier{requireLowS: true}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Default returns the process-wide verifier, built on first use.
var Default = sync.OnceValue(func() *Verifier { return New() })

// Verify checks one signature over msg. The result is false for a wrong hash
// type, a high S value or a signature that does not verify. An error is
// returned only when the signature or key cannot be decoded at all.
func (v *Verifier) Verify(pubKey []byte, msg [32]byte, der []byte, hashType byte) (bool, error) {
	key, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, fmt.Errorf("sigverify: public key: %w", err)
	}
	sig, highS, err := parseDER(der)
	if err != nil {
		return false, err
	}
	if hashType != SIGHASH_ALL {
		return false, nil
	}
	if highS && v.requireLowS {
		return false, nil
	}
	return sig.Verify(msg[:], key), nil
}
