package script

import (
	"bytes"
	"crypto/sha256"

	"dynafed.dev/signblock/consensus"
)

type PolicyKind uint8

const (
	PolicyPK PolicyKind = iota + 1
	PolicyMulti
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyPK:
		return "pk"
	case PolicyMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Policy is a parsed signing policy: Threshold signatures over Keys, checked
// in key order.
type Policy struct {
	Kind      PolicyKind
	Threshold int
	Keys      [][]byte
	// WitnessScript is set when the signblockscript is a P2WSH program and
	// holds the revealed inner script.
	WitnessScript []byte
}

// Wrapped reports whether the policy was revealed through a P2WSH program.
func (p *Policy) Wrapped() bool { return p.WitnessScript != nil }

// StackSize is the number of witness elements the inner script consumes:
// one signature for pk, the CHECKMULTISIG dummy plus Threshold signatures
// for multi.
func (p *Policy) StackSize() int {
	if p.Kind == PolicyMulti {
		return p.Threshold + 1
	}
	return p.Threshold
}

func structural(format string, args ...any) error {
	return consensus.Errorf(consensus.SIGNBLOCK_ERR_STRUCTURAL, format, args...)
}

// ParsePolicy parses a bare pk or multi program.
func ParsePolicy(s []byte) (*Policy, error) {
	if len(s) == 0 {
		return nil, structural("empty policy")
	}
	switch s[len(s)-1] {
	case OP_CHECKSIG:
		return parsePK(s)
	case OP_CHECKMULTISIG:
		return parseMulti(s)
	default:
		return nil, structural("policy does not end in a signature check")
	}
}

func parsePK(s []byte) (*Policy, error) {
	off := 0
	key, ok := readPush(s, &off)
	if !ok || off != len(s)-1 {
		return nil, structural("malformed pk policy")
	}
	if !validKeyEncoding(key) {
		return nil, structural("pk policy: invalid public key encoding")
	}
	return &Policy{Kind: PolicyPK, Threshold: 1, Keys: [][]byte{key}}, nil
}

func parseMulti(s []byte) (*Policy, error) {
	off := 0
	m, ok := readSmallInt(s, &off)
	if !ok {
		return nil, structural("multi policy: bad threshold")
	}
	var keys [][]byte
	for {
		save := off
		key, ok := readPush(s, &off)
		if !ok || !validKeyEncoding(key) {
			off = save
			break
		}
		keys = append(keys, key)
		if len(keys) > MAX_MULTISIG_KEYS {
			return nil, structural("multi policy: more than %d keys", MAX_MULTISIG_KEYS)
		}
	}
	n, ok := readSmallInt(s, &off)
	if !ok {
		return nil, structural("multi policy: bad key count")
	}
	if off != len(s)-1 {
		return nil, structural("multi policy: trailing opcodes")
	}
	if n != len(keys) {
		return nil, structural("multi policy: declares %d keys, has %d", n, len(keys))
	}
	if m < 1 || m > n {
		return nil, structural("multi policy: threshold %d of %d", m, n)
	}
	return &Policy{Kind: PolicyMulti, Threshold: m, Keys: keys}, nil
}

func validKeyEncoding(k []byte) bool {
	switch len(k) {
	case 33:
		return k[0] == 0x02 || k[0] == 0x03
	case 65:
		return k[0] == 0x04
	default:
		return false
	}
}

// IsP2WSH reports whether s is a version 0 witness program over a 32-byte
// script hash.
func IsP2WSH(s []byte) bool {
	return len(s) == 34 && s[0] == OP_0 && s[1] == 0x20
}

// P2WSH returns the version 0 witness program committing to witnessScript.
func P2WSH(witnessScript []byte) []byte {
	h := sha256.Sum256(witnessScript)
	return append([]byte{OP_0, 0x20}, h[:]...)
}

// ResolvePolicy parses signblockscript against witness. For a P2WSH program
// the last witness element is taken as the witness script, checked against
// the program, and removed from the returned stack.
func ResolvePolicy(signBlockScript []byte, witness [][]byte) (*Policy, [][]byte, error) {
	if !IsP2WSH(signBlockScript) {
		p, err := ParsePolicy(signBlockScript)
		if err != nil {
			return nil, nil, err
		}
		return p, witness, nil
	}
	if len(witness) == 0 {
		return nil, nil, structural("p2wsh policy: empty witness")
	}
	ws := witness[len(witness)-1]
	h := sha256.Sum256(ws)
	if !bytes.Equal(h[:], signBlockScript[2:]) {
		return nil, nil, structural("p2wsh policy: witness script hash mismatch")
	}
	p, err := ParsePolicy(ws)
	if err != nil {
		return nil, nil, err
	}
	p.WitnessScript = ws
	return p, witness[:len(witness)-1], nil
}

// MultiScript builds OP_m <keys> OP_n OP_CHECKMULTISIG.
func MultiScript(m int, keys [][]byte) []byte {
	out := SmallInt(m)
	for _, k := range keys {
		out = append(out, PushData(k)...)
	}
	out = append(out, SmallInt(len(keys))...)
	return append(out, OP_CHECKMULTISIG)
}

// PKScript builds <key> OP_CHECKSIG.
func PKScript(key []byte) []byte {
	return append(PushData(key), OP_CHECKSIG)
}
