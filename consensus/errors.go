package consensus

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	BLOCK_ERR_PARSE ErrorCode = "BLOCK_ERR_PARSE"

	SIGNBLOCK_ERR_STRUCTURAL      ErrorCode = "SIGNBLOCK_ERR_STRUCTURAL"
	SIGNBLOCK_ERR_SIG_UNSUPPORTED ErrorCode = "SIGNBLOCK_ERR_SIG_UNSUPPORTED"
	SIGNBLOCK_ERR_SIG_REJECTED    ErrorCode = "SIGNBLOCK_ERR_SIG_REJECTED"
)

// ConsensusError is the typed failure returned by every package in this
// module. Callers switch on Code, never on Msg.
type ConsensusError struct {
	Code ErrorCode
	Msg  string
}

func (e *ConsensusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Errorf builds a *ConsensusError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) error {
	return &ConsensusError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func cerr(code ErrorCode, msg string) error {
	return &ConsensusError{Code: code, Msg: msg}
}

// CodeOf returns the code of the first *ConsensusError in err's chain, or ""
// if there is none.
func CodeOf(err error) ErrorCode {
	var ce *ConsensusError
	if errors.As(err, &ce) && ce != nil {
		return ce.Code
	}
	return ""
}
