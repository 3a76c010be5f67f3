package consensus

import "encoding/binary"

// BlockHeaderBytes returns the full header encoding, including the sign block
// witness or legacy solution.
func BlockHeaderBytes(h BlockHeader) []byte {
	return appendHeader(nil, h, true)
}

// BlockHeaderHashBytes returns the encoding committed to by BlockHash: the
// header without its witness or solution.
func BlockHeaderHashBytes(h BlockHeader) []byte {
	return appendHeader(nil, h, false)
}

// BlockBytes returns the header encoding followed by the raw transaction
// section.
func BlockBytes(b *Block) []byte {
	out := appendHeader(nil, b.Header, true)
	return append(out, b.TxData...)
}

func appendHeader(out []byte, h BlockHeader, withWitness bool) []byte {
	version := h.Version
	if h.IsDynafed() {
		version |= DYNAFED_VERSION_MASK
	}
	out = binary.LittleEndian.AppendUint32(out, version)
	out = append(out, h.PrevBlockHash[:]...)
	out = append(out, h.MerkleRoot[:]...)
	out = binary.LittleEndian.AppendUint32(out, h.Time)
	out = binary.LittleEndian.AppendUint32(out, h.Height)

	switch ext := h.Ext.(type) {
	case *DynafedExt:
		out = appendDynafedParams(out, &ext.Current)
		out = appendDynafedParams(out, &ext.Proposed)
		if withWitness {
			out = appendVarBytesVec(out, ext.SignBlockWitness)
		}
	case *ProofExt:
		out = appendVarBytes(out, ext.Challenge)
		if withWitness {
			out = appendVarBytes(out, ext.Solution)
		}
	default:
		// A header with no extension encodes as an empty legacy proof.
		out = appendVarBytes(out, nil)
		if withWitness {
			out = appendVarBytes(out, nil)
		}
	}
	return out
}

func appendDynafedParams(out []byte, p *DynafedParams) []byte {
	out = append(out, byte(p.Type))
	switch p.Type {
	case PARAMS_COMPACT:
		out = appendVarBytes(out, p.SignBlockScript)
		out = binary.LittleEndian.AppendUint32(out, p.SignBlockWitnessLimit)
		out = append(out, p.ElidedRoot[:]...)
	case PARAMS_FULL:
		out = appendVarBytes(out, p.SignBlockScript)
		out = binary.LittleEndian.AppendUint32(out, p.SignBlockWitnessLimit)
		out = appendVarBytes(out, p.FedpegProgram)
		out = appendVarBytes(out, p.FedpegScript)
		out = appendVarBytesVec(out, p.ExtensionSpace)
	}
	return out
}

func appendVarBytes(out []byte, v []byte) []byte {
	out = AppendCompactSize(out, uint64(len(v)))
	return append(out, v...)
}

func appendVarBytesVec(out []byte, vs [][]byte) []byte {
	out = AppendCompactSize(out, uint64(len(vs)))
	for _, v := range vs {
		out = appendVarBytes(out, v)
	}
	return out
}
