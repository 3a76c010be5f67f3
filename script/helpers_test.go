package script

import "bytes"

func fakeKey(tag byte) []byte {
	k := bytes.Repeat([]byte{tag}, 33)
	k[0] = 0x02
	return k
}

func fakeKeys(n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = fakeKey(byte(0x10 + i))
	}
	return keys
}

// fakeSig is DER-framed so the slot classifies as ECDSA; the content is
// never checked cryptographically in this package.
func fakeSig(tag byte, hashType byte) []byte {
	body := bytes.Repeat([]byte{tag}, 68)
	return append(append([]byte{0x30, 0x44}, body...), hashType)
}

func multiWitness(sigs ...[]byte) [][]byte {
	return append([][]byte{{}}, sigs...)
}

// keyTagVerdict accepts a pair when the signature body carries the same tag
// as the key, which lets tests model per-slot validity without curve math.
func keyTagVerdict(pair KeySigPair) (bool, error) {
	return pair.Signature[2] == pair.PubKey[1], nil
}
