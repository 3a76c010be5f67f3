package signblock

import (
	"testing"

	"dynafed.dev/signblock/consensus"
	"dynafed.dev/signblock/script"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

type federation struct {
	privs []*secp256k1.PrivateKey
	pubs  [][]byte
}

func newFederation(n int) federation {
	var f federation
	for i := 0; i < n; i++ {
		seed := make([]byte, 32)
		seed[31] = byte(i + 1)
		seed[0] = 0x5a
		priv := secp256k1.PrivKeyFromBytes(seed)
		f.privs = append(f.privs, priv)
		f.pubs = append(f.pubs, priv.PubKey().SerializeCompressed())
	}
	return f
}

func signSlot(priv *secp256k1.PrivateKey, msg [32]byte, hashType byte) []byte {
	der := ecdsa.Sign(priv, msg[:]).Serialize()
	return append(der, hashType)
}

// unsignedHeader builds a dynafed header whose active params carry
// signBlockScript and an empty witness.
func unsignedHeader(signBlockScript []byte) consensus.BlockHeader {
	h := consensus.BlockHeader{
		Version: 0x2000_0000,
		Time:    1_700_000_000,
		Height:  2_265_854,
	}
	h.PrevBlockHash[0] = 0xaa
	h.MerkleRoot[0] = 0xbb
	h.Ext = &consensus.DynafedExt{
		Current: consensus.DynafedParams{
			Type:                  consensus.PARAMS_COMPACT,
			SignBlockScript:       signBlockScript,
			SignBlockWitnessLimit: 1416,
			ElidedRoot:            [32]byte{0x01},
		},
	}
	return h
}

func setWitness(h *consensus.BlockHeader, w [][]byte) {
	h.Ext.(*consensus.DynafedExt).SignBlockWitness = w
}

func witnessOf(h *consensus.BlockHeader) [][]byte {
	return h.Ext.(*consensus.DynafedExt).SignBlockWitness
}

// multiBlock returns a block under an m-of-n multisig policy, signed by the
// first m keys. With wrap the policy is committed to as P2WSH and the
// witness script is appended to the witness.
func multiBlock(t *testing.T, f federation, m int, wrap bool) *consensus.Block {
	t.Helper()
	ws := script.MultiScript(m, f.pubs)
	spk := ws
	if wrap {
		spk = script.P2WSH(ws)
	}
	h := unsignedHeader(spk)
	msg := consensus.BlockHash(h)

	w := [][]byte{{}}
	for i := 0; i < m; i++ {
		w = append(w, signSlot(f.privs[i], msg, script.SIGHASH_ALL))
	}
	if wrap {
		w = append(w, ws)
	}
	setWitness(&h, w)
	return &consensus.Block{Header: h, TxData: []byte{0x00}}
}

// firstSigElement is the witness index of signature slot 0 in a multi block.
const firstSigElement = 1

func cloneBlock(b *consensus.Block) *consensus.Block {
	blk, err := consensus.ParseBlock(consensus.BlockBytes(b))
	if err != nil {
		panic(err)
	}
	return blk
}

func mustVerificationError(t *testing.T, err error) *VerificationError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected verification error, got nil")
	}
	verr, ok := err.(*VerificationError)
	if !ok {
		t.Fatalf("expected *VerificationError, got %T: %v", err, err)
	}
	return verr
}
