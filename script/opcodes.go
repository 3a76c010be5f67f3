package script

const (
	OP_0              byte = 0x00
	OP_PUSHDATA1      byte = 0x4c
	OP_PUSHDATA2      byte = 0x4d
	OP_1              byte = 0x51
	OP_16             byte = 0x60
	OP_CHECKSIG       byte = 0xac
	OP_CHECKMULTISIG  byte = 0xae
	maxPushOpcode     byte = 0x4b
	MAX_MULTISIG_KEYS      = 20
)

// readPush reads one data push at *off. Only direct pushes (0x01..0x4b) and
// OP_PUSHDATA1 are part of the policy grammar.
func readPush(s []byte, off *int) ([]byte, bool) {
	if *off >= len(s) {
		return nil, false
	}
	op := s[*off]
	n := 0
	start := *off + 1
	switch {
	case op >= 0x01 && op <= maxPushOpcode:
		n = int(op)
	case op == OP_PUSHDATA1:
		if start >= len(s) {
			return nil, false
		}
		n = int(s[start])
		start++
	default:
		return nil, false
	}
	if start+n > len(s) {
		return nil, false
	}
	*off = start + n
	return s[start : start+n], true
}

// readSmallInt reads OP_1..OP_16 or a one-byte minimal push of 17..20.
func readSmallInt(s []byte, off *int) (int, bool) {
	if *off >= len(s) {
		return 0, false
	}
	op := s[*off]
	if op >= OP_1 && op <= OP_16 {
		*off++
		return int(op-OP_1) + 1, true
	}
	if op != 0x01 || *off+1 >= len(s) {
		return 0, false
	}
	v := int(s[*off+1])
	if v <= 16 || v > MAX_MULTISIG_KEYS {
		return 0, false
	}
	*off += 2
	return v, true
}

// PushData returns the minimal push encoding of b. OP_PUSHDATA2 output is
// never accepted by the policy grammar.
func PushData(b []byte) []byte {
	switch {
	case len(b) <= int(maxPushOpcode):
		return append([]byte{byte(len(b))}, b...)
	case len(b) <= 0xff:
		return append([]byte{OP_PUSHDATA1, byte(len(b))}, b...)
	default:
		return append([]byte{OP_PUSHDATA2, byte(len(b)), byte(len(b) >> 8)}, b...)
	}
}

// SmallInt returns the encoding readSmallInt accepts for n.
func SmallInt(n int) []byte {
	if n >= 1 && n <= 16 {
		return []byte{OP_1 + byte(n-1)}
	}
	return []byte{0x01, byte(n)}
}
