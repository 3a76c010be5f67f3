package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcome labels.
const (
	ResultOK          = "ok"
	ResultStructural  = "structural"
	ResultUnsupported = "unsupported"
	ResultRejected    = "rejected"
)

// Signature check labels.
const (
	CheckValid   = "valid"
	CheckInvalid = "invalid"
	CheckError   = "error"
)

// Metrics collects sign block verification outcomes. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	verificationsTotal   *prometheus.CounterVec
	signatureChecksTotal *prometheus.CounterVec
	verificationDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signblock_verifications_total",
				Help: "Sign block witness verifications by result",
			},
			[]string{"result"},
		),
		signatureChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signblock_signature_checks_total",
				Help: "Individual signature checks by result",
			},
			[]string{"result"},
		),
		verificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signblock_verification_duration_seconds",
				Help:    "Time spent verifying one sign block witness",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.verificationsTotal,
		m.signatureChecksTotal,
		m.verificationDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RecordVerification(result string, seconds float64) {
	if m == nil {
		return
	}
	m.verificationsTotal.WithLabelValues(result).Inc()
	m.verificationDuration.Observe(seconds)
}

func (m *Metrics) RecordSignatureCheck(result string) {
	if m == nil {
		return
	}
	m.signatureChecksTotal.WithLabelValues(result).Inc()
}
