package consensus

// ParseBlock decodes the header at the front of b and keeps the remaining
// transaction bytes undecoded.
func ParseBlock(b []byte) (*Block, error) {
	off := 0
	h, err := parseBlockHeader(b, &off)
	if err != nil {
		return nil, err
	}
	return &Block{Header: h, TxData: append([]byte{}, b[off:]...)}, nil
}

// ParseBlockHeaderBytes decodes a standalone header and rejects trailing
// bytes.
func ParseBlockHeaderBytes(b []byte) (BlockHeader, error) {
	off := 0
	h, err := parseBlockHeader(b, &off)
	if err != nil {
		return BlockHeader{}, err
	}
	if off != len(b) {
		return BlockHeader{}, cerr(BLOCK_ERR_PARSE, "trailing bytes after header")
	}
	return h, nil
}

func parseBlockHeader(b []byte, off *int) (BlockHeader, error) {
	var h BlockHeader

	version, err := readU32le(b, off)
	if err != nil {
		return h, err
	}
	if h.PrevBlockHash, err = readHash(b, off); err != nil {
		return h, err
	}
	if h.MerkleRoot, err = readHash(b, off); err != nil {
		return h, err
	}
	if h.Time, err = readU32le(b, off); err != nil {
		return h, err
	}
	if h.Height, err = readU32le(b, off); err != nil {
		return h, err
	}

	if version&DYNAFED_VERSION_MASK == 0 {
		h.Version = version
		challenge, err := readVarBytes(b, off)
		if err != nil {
			return h, err
		}
		solution, err := readVarBytes(b, off)
		if err != nil {
			return h, err
		}
		h.Ext = &ProofExt{Challenge: challenge, Solution: solution}
		return h, nil
	}

	h.Version = version &^ DYNAFED_VERSION_MASK
	ext := &DynafedExt{}
	if ext.Current, err = parseDynafedParams(b, off); err != nil {
		return h, err
	}
	if ext.Proposed, err = parseDynafedParams(b, off); err != nil {
		return h, err
	}
	if ext.SignBlockWitness, err = readVarBytesVec(b, off); err != nil {
		return h, err
	}
	h.Ext = ext
	return h, nil
}

func parseDynafedParams(b []byte, off *int) (DynafedParams, error) {
	var p DynafedParams
	typ, err := readU8(b, off)
	if err != nil {
		return p, err
	}
	p.Type = ParamsType(typ)
	switch p.Type {
	case PARAMS_NULL:
		return p, nil
	case PARAMS_COMPACT, PARAMS_FULL:
	default:
		return p, Errorf(BLOCK_ERR_PARSE, "unknown dynafed params type %d", typ)
	}

	if p.SignBlockScript, err = readVarBytes(b, off); err != nil {
		return p, err
	}
	if p.SignBlockWitnessLimit, err = readU32le(b, off); err != nil {
		return p, err
	}
	if p.Type == PARAMS_COMPACT {
		if p.ElidedRoot, err = readHash(b, off); err != nil {
			return p, err
		}
		return p, nil
	}

	if p.FedpegProgram, err = readVarBytes(b, off); err != nil {
		return p, err
	}
	if p.FedpegScript, err = readVarBytes(b, off); err != nil {
		return p, err
	}
	if p.ExtensionSpace, err = readVarBytesVec(b, off); err != nil {
		return p, err
	}
	return p, nil
}
