package main

import (
	"errors"
	"fmt"
	"io"

	"dynafed.dev/signblock/consensus"
	"dynafed.dev/signblock/signblock"
	"dynafed.dev/signblock/store"

	json "github.com/goccy/go-json"
)

// report is the outcome of checking one block, as printed by verify and
// check.
type report struct {
	Hash    string `json:"hash,omitempty"`
	Height  uint32 `json:"height"`
	Dynafed bool   `json:"dynafed"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Index   int    `json:"index"`
	Cause   string `json:"cause,omitempty"`
}

// checkBlock parses raw and verifies its sign block witness. Parse failures
// are reported like verification failures, without a hash.
func (a *app) checkBlock(raw []byte) report {
	blk, err := consensus.ParseBlock(raw)
	if err != nil {
		return failedReport(report{Index: -1}, err)
	}
	r := report{
		Hash:    consensus.DisplayHash(consensus.BlockHash(blk.Header)),
		Height:  blk.Header.Height,
		Dynafed: blk.Header.IsDynafed(),
		Index:   -1,
	}
	if err := a.verifier.VerifyBlockSignatures(blk); err != nil {
		return failedReport(r, err)
	}
	r.OK = true
	return r
}

func failedReport(r report, err error) report {
	r.OK = false
	r.Code = string(consensus.CodeOf(err))
	r.Cause = err.Error()
	var verr *signblock.VerificationError
	if errors.As(err, &verr) {
		r.Code = string(verr.Code)
		r.Index = verr.Index
		r.Cause = verr.Cause
	}
	return r
}

func (r report) verdict(checkedAt int64) store.Verdict {
	return store.Verdict{
		OK:        r.OK,
		Code:      r.Code,
		Index:     r.Index,
		Cause:     r.Cause,
		CheckedAt: checkedAt,
	}
}

func writeReports(w io.Writer, asJSON bool, reports []report) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if err := writeReportText(w, r); err != nil {
			return err
		}
	}
	return nil
}

func writeReportText(w io.Writer, r report) error {
	hash := r.Hash
	if hash == "" {
		hash = "-"
	}
	if r.OK {
		_, err := fmt.Fprintf(w, "OK   %s height=%d\n", hash, r.Height)
		return err
	}
	_, err := fmt.Fprintf(w, "FAIL %s height=%d code=%s index=%d: %s\n", hash, r.Height, r.Code, r.Index, r.Cause)
	return err
}

func allOK(reports []report) bool {
	for _, r := range reports {
		if !r.OK {
			return false
		}
	}
	return true
}
