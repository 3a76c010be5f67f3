package consensus

// ActiveParams returns the dynafed parameters in force for h.
func ActiveParams(h *BlockHeader) (*DynafedParams, error) {
	if h == nil {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "nil header")
	}
	ext, ok := h.Ext.(*DynafedExt)
	if !ok {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "header is not dynafed")
	}
	if ext.Current.IsNull() {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "no active dynafed params")
	}
	return &ext.Current, nil
}

// SignBlockScript returns the signing policy program of p.
func SignBlockScript(p *DynafedParams) ([]byte, error) {
	if p.IsNull() {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "null dynafed params have no signblockscript")
	}
	if len(p.SignBlockScript) == 0 {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "empty signblockscript")
	}
	return p.SignBlockScript, nil
}

// SignBlockWitness returns the witness stack attached to h. An empty stack is
// returned as-is; rejecting it is the interpreter's job.
func SignBlockWitness(h *BlockHeader) ([][]byte, error) {
	if h == nil {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "nil header")
	}
	ext, ok := h.Ext.(*DynafedExt)
	if !ok {
		return nil, cerr(SIGNBLOCK_ERR_STRUCTURAL, "header carries no signblock witness")
	}
	if ext.SignBlockWitness == nil {
		return [][]byte{}, nil
	}
	return ext.SignBlockWitness, nil
}

// WitnessSerializeSize is the encoded size of w, the figure compared against
// SignBlockWitnessLimit.
func WitnessSerializeSize(w [][]byte) int {
	n := CompactSizeLen(uint64(len(w)))
	for _, item := range w {
		n += CompactSizeLen(uint64(len(item))) + len(item)
	}
	return n
}
