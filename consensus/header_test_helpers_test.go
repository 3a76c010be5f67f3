package consensus

func sampleDynafedHeader() BlockHeader {
	h := BlockHeader{
		Version: 0x2000_0000,
		Time:    1_700_000_000,
		Height:  2_265_854,
	}
	h.PrevBlockHash[0] = 0x11
	h.MerkleRoot[31] = 0x22
	h.Ext = &DynafedExt{
		Current: DynafedParams{
			Type:                  PARAMS_COMPACT,
			SignBlockScript:       []byte{0x51, 0x21, 0x02, 0xac},
			SignBlockWitnessLimit: 1416,
			ElidedRoot:            [32]byte{0x33},
		},
		Proposed: DynafedParams{
			Type:                  PARAMS_FULL,
			SignBlockScript:       []byte{0x00, 0x20, 0x01},
			SignBlockWitnessLimit: 2000,
			FedpegProgram:         []byte{0x00, 0x14},
			FedpegScript:          []byte{0x51},
			ExtensionSpace:        [][]byte{{0x01, 0x02}, {}},
		},
		SignBlockWitness: [][]byte{{}, {0x30, 0x44, 0x01}, {0x52, 0xae}},
	}
	return h
}

func sampleLegacyHeader() BlockHeader {
	h := BlockHeader{Version: 0x2000_0000, Time: 1_600_000_000, Height: 10}
	h.Ext = &ProofExt{Challenge: []byte{0x51}, Solution: []byte{0x00}}
	return h
}
