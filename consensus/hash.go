package consensus

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

func sha256d(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// BlockHash is the double-SHA256 of the header without its witness. The
// sign block signatures commit to exactly these 32 bytes.
func BlockHash(h BlockHeader) [32]byte {
	return sha256d(BlockHeaderHashBytes(h))
}

// DisplayHash renders a hash in the conventional reversed-hex form used by
// explorers and RPC.
func DisplayHash(h [32]byte) string {
	r := h
	slices.Reverse(r[:])
	return hex.EncodeToString(r[:])
}

// ParseDisplayHash is the inverse of DisplayHash.
func ParseDisplayHash(s string) ([32]byte, error) {
	var h [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, Errorf(BLOCK_ERR_PARSE, "hash hex: %v", err)
	}
	if len(b) != 32 {
		return h, Errorf(BLOCK_ERR_PARSE, "hash length %d", len(b))
	}
	slices.Reverse(b)
	copy(h[:], b)
	return h, nil
}
