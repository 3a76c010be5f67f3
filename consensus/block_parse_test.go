package consensus

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBlockHeaderBytes_Dynafed(t *testing.T) {
	h := sampleDynafedHeader()
	raw := BlockHeaderBytes(h)
	if binary.LittleEndian.Uint32(raw[:4])&DYNAFED_VERSION_MASK == 0 {
		t.Fatalf("dynafed bit not set on the wire")
	}
	got, err := ParseBlockHeaderBytes(raw)
	if err != nil {
		t.Fatalf("ParseBlockHeaderBytes: %v", err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlockHeaderBytes_Legacy(t *testing.T) {
	h := sampleLegacyHeader()
	got, err := ParseBlockHeaderBytes(BlockHeaderBytes(h))
	if err != nil {
		t.Fatalf("ParseBlockHeaderBytes: %v", err)
	}
	if got.IsDynafed() {
		t.Fatalf("legacy header decoded as dynafed")
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlockHeaderBytes_TrailingBytes(t *testing.T) {
	raw := append(BlockHeaderBytes(sampleDynafedHeader()), 0x00)
	_, err := ParseBlockHeaderBytes(raw)
	if got := CodeOf(err); got != BLOCK_ERR_PARSE {
		t.Fatalf("code=%s, want %s", got, BLOCK_ERR_PARSE)
	}
}

func TestParseBlockHeaderBytes_EveryTruncationFails(t *testing.T) {
	raw := BlockHeaderBytes(sampleDynafedHeader())
	for n := 0; n < len(raw); n++ {
		if _, err := ParseBlockHeaderBytes(raw[:n]); err == nil {
			t.Fatalf("truncation at %d/%d accepted", n, len(raw))
		}
	}
}

func TestParseBlockHeaderBytes_UnknownParamsType(t *testing.T) {
	h := BlockHeader{Ext: &DynafedExt{}}
	raw := BlockHeaderBytes(h)
	// version(4) prev(32) merkle(32) time(4) height(4) -> current params type
	raw[76] = 0x07
	_, err := ParseBlockHeaderBytes(raw)
	if got := CodeOf(err); got != BLOCK_ERR_PARSE {
		t.Fatalf("code=%s, want %s", got, BLOCK_ERR_PARSE)
	}
}

func TestParseBlock_KeepsTxData(t *testing.T) {
	h := sampleDynafedHeader()
	txs := []byte{0x01, 0xde, 0xad}
	blk, err := ParseBlock(append(BlockHeaderBytes(h), txs...))
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if diff := cmp.Diff(txs, blk.TxData); diff != "" {
		t.Fatalf("tx data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(BlockBytes(blk), append(BlockHeaderBytes(h), txs...)); diff != "" {
		t.Fatalf("BlockBytes mismatch:\n%s", diff)
	}
}
