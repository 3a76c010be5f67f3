package script

import "dynafed.dev/signblock/consensus"

// SIGHASH_ALL is the only hash type a sign block signature may declare.
const SIGHASH_ALL byte = 0x01

type SigKind uint8

const (
	SigKindECDSA SigKind = iota + 1
	SigKindSchnorr
)

func (k SigKind) String() string {
	switch k {
	case SigKindECDSA:
		return "ecdsa"
	case SigKindSchnorr:
		return "schnorr"
	default:
		return "unknown"
	}
}

// KeySigPair is one witness slot matched to its policy key.
type KeySigPair struct {
	Index     int
	PubKey    []byte
	Signature []byte // DER, hash type stripped
	HashType  byte
	Kind      SigKind
}

// Smallest DER signature: 30 06 02 01 r 02 01 s, plus the hash type byte.
const minECDSASlotBytes = 9

// classifySlot decides the signature kind of a witness element from its
// framing alone. Elements that are neither DER-framed nor BIP-340 sized are
// malformed.
func classifySlot(index int, elem []byte) (SigKind, error) {
	switch {
	case len(elem) == 0:
		return 0, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_REJECTED, "slot %d: empty signature", index)
	case len(elem) >= minECDSASlotBytes && elem[0] == 0x30 && int(elem[1]) == len(elem)-3:
		return SigKindECDSA, nil
	case len(elem) == 64 || len(elem) == 65:
		return SigKindSchnorr, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_UNSUPPORTED, "slot %d: schnorr signature, only ecdsa is supported", index)
	default:
		return 0, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_REJECTED, "slot %d: malformed signature encoding", index)
	}
}
