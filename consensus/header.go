package consensus

// DYNAFED_VERSION_MASK is set in the serialized header version when the
// header carries dynamic-federation parameters instead of a legacy proof.
const DYNAFED_VERSION_MASK uint32 = 0x8000_0000

type ParamsType uint8

const (
	PARAMS_NULL    ParamsType = 0
	PARAMS_COMPACT ParamsType = 1
	PARAMS_FULL    ParamsType = 2
)

func (t ParamsType) String() string {
	switch t {
	case PARAMS_NULL:
		return "null"
	case PARAMS_COMPACT:
		return "compact"
	case PARAMS_FULL:
		return "full"
	default:
		return "unknown"
	}
}

// DynafedParams is one dynamic-federation parameter entry. Compact entries
// commit to the elided fedpeg/extension fields through ElidedRoot; full
// entries carry them inline.
type DynafedParams struct {
	Type                  ParamsType
	SignBlockScript       []byte
	SignBlockWitnessLimit uint32
	ElidedRoot            [32]byte
	FedpegProgram         []byte
	FedpegScript          []byte
	ExtensionSpace        [][]byte
}

func (p *DynafedParams) IsNull() bool {
	return p == nil || p.Type == PARAMS_NULL
}

// ExtData is the header extension: either *ProofExt or *DynafedExt.
type ExtData interface {
	isExtData()
}

// ProofExt is the legacy signed-block extension.
type ProofExt struct {
	Challenge []byte
	Solution  []byte
}

// DynafedExt carries the current and proposed parameters plus the sign
// block witness. The witness is not covered by the block hash.
type DynafedExt struct {
	Current          DynafedParams
	Proposed         DynafedParams
	SignBlockWitness [][]byte
}

func (*ProofExt) isExtData()   {}
func (*DynafedExt) isExtData() {}

type BlockHeader struct {
	Version       uint32
	PrevBlockHash [32]byte
	MerkleRoot    [32]byte
	Time          uint32
	Height        uint32
	Ext           ExtData
}

// IsDynafed reports whether the header carries a dynafed extension.
func (h *BlockHeader) IsDynafed() bool {
	if h == nil {
		return false
	}
	_, ok := h.Ext.(*DynafedExt)
	return ok
}

// Block is a decoded header followed by the transaction section, which is
// kept as opaque bytes.
type Block struct {
	Header BlockHeader
	TxData []byte
}
