package consensus

import "encoding/binary"

// CompactSize is the Bitcoin variable-length integer used as the length
// prefix of every byte string and vector in the Elements header encoding.
type CompactSize uint64

func (c CompactSize) Encode() []byte {
	return AppendCompactSize(nil, uint64(c))
}

// AppendCompactSize appends the minimal encoding of n to dst.
func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		return binary.LittleEndian.AppendUint16(dst, uint16(n))
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		return binary.LittleEndian.AppendUint32(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return binary.LittleEndian.AppendUint64(dst, n)
	}
}

// CompactSizeLen returns the number of bytes AppendCompactSize writes for n.
func CompactSizeLen(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffff_ffff:
		return 5
	default:
		return 9
	}
}

// DecodeCompactSize decodes one value from the front of b and returns it with
// the number of bytes consumed. Non-minimal encodings are rejected.
func DecodeCompactSize(b []byte) (CompactSize, int, error) {
	off := 0
	v, err := readCompactSize(b, &off)
	if err != nil {
		return 0, 0, err
	}
	return CompactSize(v), off, nil
}
