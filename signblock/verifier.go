// Package signblock verifies that a dynafed block header's sign block
// witness satisfies the signing policy in its active parameters.
package signblock

import (
	"encoding/hex"
	"time"

	"dynafed.dev/signblock/consensus"
	"dynafed.dev/signblock/internal/metrics"
	"dynafed.dev/signblock/script"
	"dynafed.dev/signblock/sigverify"

	"go.uber.org/zap"
)

// SignatureChecker validates one ECDSA signature over a 32-byte message.
// *sigverify.Verifier is the production implementation.
type SignatureChecker interface {
	Verify(pubKey []byte, msg [32]byte, der []byte, hashType byte) (bool, error)
}

type Verifier struct {
	sigs    SignatureChecker
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Verifier)

func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) { v.metrics = m }
}

func WithSignatureChecker(c SignatureChecker) Option {
	return func(v *Verifier) {
		if c != nil {
			v.sigs = c
		}
	}
}

// New returns a Verifier backed by sigverify.Default unless overridden.
// Verifiers hold no per-call state and may be shared across goroutines.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		sigs: sigverify.Default(),
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// VerifyBlockSignatures checks b with default options.
func VerifyBlockSignatures(b *consensus.Block) error {
	return New().VerifyBlockSignatures(b)
}

// VerifyBlockSignatures returns nil if b's sign block witness satisfies the
// active signing policy, or a *VerificationError.
func (v *Verifier) VerifyBlockSignatures(b *consensus.Block) error {
	if b == nil {
		return v.finish(time.Now(), newVerificationError(nil, nil, -1,
			consensus.Errorf(consensus.SIGNBLOCK_ERR_STRUCTURAL, "nil block")))
	}
	return v.VerifyHeader(&b.Header)
}

func (v *Verifier) VerifyHeader(h *consensus.BlockHeader) error {
	start := time.Now()
	return v.finish(start, v.verifyHeader(h))
}

func (v *Verifier) finish(start time.Time, verr *VerificationError) error {
	result := metrics.ResultOK
	if verr != nil {
		result = resultLabel(verr.Code)
		v.log.Warn("signblock verification failed",
			zap.String("code", string(verr.Code)),
			zap.Int("index", verr.Index),
			zap.String("cause", verr.Cause),
		)
	}
	v.metrics.RecordVerification(result, time.Since(start).Seconds())
	if verr == nil {
		return nil
	}
	return verr
}

func (v *Verifier) verifyHeader(h *consensus.BlockHeader) *VerificationError {
	params, err := consensus.ActiveParams(h)
	if err != nil {
		return newVerificationError(nil, nil, -1, err)
	}
	policy, err := consensus.SignBlockScript(params)
	if err != nil {
		return newVerificationError(nil, nil, -1, err)
	}
	witness, err := consensus.SignBlockWitness(h)
	if err != nil {
		return newVerificationError(policy, nil, -1, err)
	}
	if size := consensus.WitnessSerializeSize(witness); size > int(params.SignBlockWitnessLimit) {
		return newVerificationError(policy, witness, -1, consensus.Errorf(consensus.SIGNBLOCK_ERR_STRUCTURAL,
			"witness is %d bytes, limit %d", size, params.SignBlockWitnessLimit))
	}

	msg := consensus.BlockHash(*h)
	log := v.log.With(zap.String("block_hash", consensus.DisplayHash(msg)), zap.Uint32("height", h.Height))
	if log.Core().Enabled(zap.DebugLevel) {
		for i, w := range witness {
			log.Debug("witness element", zap.Int("index", i), zap.String("hex", hex.EncodeToString(w)))
		}
	}

	it, err := script.NewInterpreter(policy, witness)
	if err != nil {
		return newVerificationError(policy, witness, -1, err)
	}

	verdict := func(p script.KeySigPair) (bool, error) {
		ok, err := v.sigs.Verify(p.PubKey, msg, p.Signature, p.HashType)
		switch {
		case err != nil:
			v.metrics.RecordSignatureCheck(metrics.CheckError)
		case ok:
			v.metrics.RecordSignatureCheck(metrics.CheckValid)
			log.Debug("valid signblock witness",
				zap.Int("index", p.Index),
				zap.String("pubkey", hex.EncodeToString(p.PubKey)),
				zap.String("sig", hex.EncodeToString(p.Signature)),
			)
		default:
			v.metrics.RecordSignatureCheck(metrics.CheckInvalid)
		}
		return ok, err
	}
	for idx, err := range it.Steps(verdict) {
		if err != nil {
			return newVerificationError(policy, witness, idx, err)
		}
	}

	if it.State() != script.StateSatisfied {
		return newVerificationError(policy, witness, it.FailedAt(), consensus.Errorf(consensus.SIGNBLOCK_ERR_STRUCTURAL,
			"interpreter stopped in state %s", it.State()))
	}
	log.Debug("signblock witness satisfied",
		zap.String("policy", it.Policy().Kind.String()),
		zap.Int("verified", it.Verified()),
		zap.Int("threshold", it.Policy().Threshold),
	)
	return nil
}

func resultLabel(code consensus.ErrorCode) string {
	switch code {
	case consensus.SIGNBLOCK_ERR_SIG_UNSUPPORTED:
		return metrics.ResultUnsupported
	case consensus.SIGNBLOCK_ERR_SIG_REJECTED:
		return metrics.ResultRejected
	default:
		return metrics.ResultStructural
	}
}
