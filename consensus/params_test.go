package consensus

import "testing"

func TestActiveParams(t *testing.T) {
	dyn := sampleDynafedHeader()
	p, err := ActiveParams(&dyn)
	if err != nil {
		t.Fatalf("ActiveParams: %v", err)
	}
	if p.Type != PARAMS_COMPACT || p.SignBlockWitnessLimit != 1416 {
		t.Fatalf("unexpected params: %+v", p)
	}

	cases := []struct {
		name string
		h    *BlockHeader
	}{
		{"nil", nil},
		{"legacy", func() *BlockHeader { h := sampleLegacyHeader(); return &h }()},
		{"no_extension", &BlockHeader{}},
		{"null_current", &BlockHeader{Ext: &DynafedExt{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ActiveParams(tc.h)
			if got := CodeOf(err); got != SIGNBLOCK_ERR_STRUCTURAL {
				t.Fatalf("code=%s, want %s", got, SIGNBLOCK_ERR_STRUCTURAL)
			}
		})
	}
}

func TestSignBlockScript(t *testing.T) {
	if _, err := SignBlockScript(&DynafedParams{Type: PARAMS_FULL, SignBlockScript: []byte{0x51}}); err != nil {
		t.Fatalf("SignBlockScript: %v", err)
	}
	for _, p := range []*DynafedParams{nil, {Type: PARAMS_NULL}, {Type: PARAMS_COMPACT}} {
		if _, err := SignBlockScript(p); CodeOf(err) != SIGNBLOCK_ERR_STRUCTURAL {
			t.Fatalf("params %+v: err=%v", p, err)
		}
	}
}

func TestSignBlockWitness(t *testing.T) {
	dyn := sampleDynafedHeader()
	w, err := SignBlockWitness(&dyn)
	if err != nil || len(w) != 3 {
		t.Fatalf("SignBlockWitness: len=%d err=%v", len(w), err)
	}

	empty := BlockHeader{Ext: &DynafedExt{}}
	w, err = SignBlockWitness(&empty)
	if err != nil || w == nil || len(w) != 0 {
		t.Fatalf("empty witness: %v %v", w, err)
	}

	legacy := sampleLegacyHeader()
	if _, err := SignBlockWitness(&legacy); CodeOf(err) != SIGNBLOCK_ERR_STRUCTURAL {
		t.Fatalf("legacy: err=%v", err)
	}
}

func TestWitnessSerializeSize(t *testing.T) {
	w := [][]byte{{}, make([]byte, 72), make([]byte, 300)}
	h := BlockHeader{Ext: &DynafedExt{SignBlockWitness: w}}
	enc := BlockHeaderBytes(h)
	withoutWitness := BlockHeaderHashBytes(h)
	if got, want := WitnessSerializeSize(w), len(enc)-len(withoutWitness); got != want {
		t.Fatalf("WitnessSerializeSize=%d, want %d", got, want)
	}
}
