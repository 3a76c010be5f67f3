package signblock

import (
	"encoding/hex"
	"fmt"
	"strings"

	"dynafed.dev/signblock/consensus"
)

// VerificationError is the single failure a verification call produces. It
// carries enough context to reproduce the failure offline: the policy, the
// whole witness and the slot that failed.
type VerificationError struct {
	Code  consensus.ErrorCode
	Index int // failing slot, -1 when no slot was reached
	Cause string

	Policy  []byte
	Witness [][]byte

	Err error
}

func (e *VerificationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": invalid signblock witness")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}
	if e.Policy != nil {
		fmt.Fprintf(&b, ": signblockscript=%x, witness=[%s]", e.Policy, witnessHex(e.Witness))
	}
	if e.Cause != "" {
		b.WriteString(": ")
		b.WriteString(e.Cause)
	}
	return b.String()
}

func (e *VerificationError) Unwrap() error { return e.Err }

func witnessHex(w [][]byte) string {
	parts := make([]string, len(w))
	for i, item := range w {
		parts[i] = hex.EncodeToString(item)
	}
	return strings.Join(parts, " ")
}

func newVerificationError(policy []byte, witness [][]byte, index int, err error) *VerificationError {
	code := consensus.CodeOf(err)
	if code == "" {
		code = consensus.SIGNBLOCK_ERR_STRUCTURAL
	}
	cause := err.Error()
	if ce, ok := err.(*consensus.ConsensusError); ok {
		cause = ce.Msg
	}
	return &VerificationError{
		Code:    code,
		Index:   index,
		Cause:   cause,
		Policy:  policy,
		Witness: witness,
		Err:     err,
	}
}
