package consensus

import "encoding/binary"

// Upper bound on any single length prefix; a header can never be larger than
// a block and blocks are capped well below this.
const maxWireItemBytes = 4_000_000

func readU8(b []byte, off *int) (uint8, error) {
	if *off+1 > len(b) {
		return 0, cerr(BLOCK_ERR_PARSE, "unexpected EOF (u8)")
	}
	v := b[*off]
	*off++
	return v, nil
}

func readU32le(b []byte, off *int) (uint32, error) {
	if *off+4 > len(b) {
		return 0, cerr(BLOCK_ERR_PARSE, "unexpected EOF (u32le)")
	}
	v := binary.LittleEndian.Uint32(b[*off : *off+4])
	*off += 4
	return v, nil
}

func readBytes(b []byte, off *int, n int) ([]byte, error) {
	if n < 0 {
		return nil, cerr(BLOCK_ERR_PARSE, "negative length")
	}
	if *off+n > len(b) {
		return nil, cerr(BLOCK_ERR_PARSE, "unexpected EOF (bytes)")
	}
	v := b[*off : *off+n]
	*off += n
	return v, nil
}

func readHash(b []byte, off *int) ([32]byte, error) {
	var h [32]byte
	v, err := readBytes(b, off, 32)
	if err != nil {
		return h, err
	}
	copy(h[:], v)
	return h, nil
}

func readCompactSize(b []byte, off *int) (uint64, error) {
	tag, err := readU8(b, off)
	if err != nil {
		return 0, cerr(BLOCK_ERR_PARSE, "compactsize: empty")
	}
	switch {
	case tag < 0xfd:
		return uint64(tag), nil
	case tag == 0xfd:
		v, err := readBytes(b, off, 2)
		if err != nil {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: truncated u16")
		}
		n := uint64(binary.LittleEndian.Uint16(v))
		if n < 0xfd {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: non-minimal u16")
		}
		return n, nil
	case tag == 0xfe:
		v, err := readBytes(b, off, 4)
		if err != nil {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: truncated u32")
		}
		n := uint64(binary.LittleEndian.Uint32(v))
		if n < 0x1_0000 {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: non-minimal u32")
		}
		return n, nil
	default: // 0xff
		v, err := readBytes(b, off, 8)
		if err != nil {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: truncated u64")
		}
		n := binary.LittleEndian.Uint64(v)
		if n < 0x1_0000_0000 {
			return 0, cerr(BLOCK_ERR_PARSE, "compactsize: non-minimal u64")
		}
		return n, nil
	}
}

// readVarBytes reads a CompactSize-prefixed byte string. The result is a
// copy so decoded headers never alias the caller's buffer.
func readVarBytes(b []byte, off *int) ([]byte, error) {
	n, err := readCompactSize(b, off)
	if err != nil {
		return nil, err
	}
	if n > maxWireItemBytes {
		return nil, cerr(BLOCK_ERR_PARSE, "byte string too large")
	}
	v, err := readBytes(b, off, int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte{}, v...), nil
}

func readVarBytesVec(b []byte, off *int) ([][]byte, error) {
	n, err := readCompactSize(b, off)
	if err != nil {
		return nil, err
	}
	// Every element costs at least one byte, which bounds n by what is left.
	if n > uint64(len(b)-*off) {
		return nil, cerr(BLOCK_ERR_PARSE, "vector count exceeds remaining bytes")
	}
	out := make([][]byte, 0, int(n))
	for i := uint64(0); i < n; i++ {
		item, err := readVarBytes(b, off)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
