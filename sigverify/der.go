package sigverify

import (
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var ErrMalformedSignature = errors.New("sigverify: malformed DER signature")

// parseDER decodes a strict DER ECDSA signature (hash type already
// stripped). r and s must be positive, minimally encoded and below the group
// order. The low-S rule is reported separately so that a well-formed high-S
// signature is a false verdict rather than a decode failure.
func parseDER(der []byte) (sig *ecdsa.Signature, highS bool, err error) {
	var (
		inner cryptobyte.String
		r, s  big.Int
	)
	in := cryptobyte.String(der)
	if !in.ReadASN1(&inner, asn1.SEQUENCE) || !in.Empty() {
		return nil, false, ErrMalformedSignature
	}
	if !inner.ReadASN1Integer(&r) || !inner.ReadASN1Integer(&s) || !inner.Empty() {
		return nil, false, ErrMalformedSignature
	}

	var rs, ss secp256k1.ModNScalar
	if !setScalar(&rs, &r) || !setScalar(&ss, &s) {
		return nil, false, ErrMalformedSignature
	}
	return ecdsa.NewSignature(&rs, &ss), ss.IsOverHalfOrder(), nil
}

func setScalar(dst *secp256k1.ModNScalar, v *big.Int) bool {
	if v.Sign() <= 0 || v.BitLen() > 256 {
		return false
	}
	if overflow := dst.SetByteSlice(v.Bytes()); overflow {
		return false
	}
	return !dst.IsZero()
}
