package main

import (
	"errors"
	"fmt"
	"io"

	"dynafed.dev/signblock/config"
	"dynafed.dev/signblock/internal/logger"
	"dynafed.dev/signblock/internal/metrics"
	"dynafed.dev/signblock/signblock"
	"dynafed.dev/signblock/sigverify"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// errVerificationFailed is returned once the failure has already been
// reported on stdout; main only turns it into exit status 1.
var errVerificationFailed = errors.New("verification failed")

// app is the per-invocation state shared by subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	runID      string

	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	verifier *signblock.Verifier
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, log: logger.NewNopLogger()}
}

// run executes one CLI invocation. Teardown runs on every exit path,
// including failed commands, which cobra's post-run hooks skip.
func run(args []string, stdout, stderr io.Writer) error {
	a := newApp(stdout, stderr)
	defer a.teardown()

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil && !errors.Is(err, errVerificationFailed) {
		a.log.Error("command failed", "error", err)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "signblock",
		Short: "Verify sign block witnesses of dynafed block headers",
		Long: `signblock checks that a block header's sign block witness satisfies the
signing policy committed to in its active dynamic federation parameters.
Blocks can be checked directly or imported into a local store and checked
in bulk, with each verdict recorded next to the block.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML or JSON config file")

	root.AddCommand(
		newVerifyCmd(a),
		newImportCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.runID = uuid.NewString()

	base, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	a.log = base.With("run_id", a.runID)

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		m, err := metrics.NewMetrics(a.registry)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		a.metrics = m
	}

	opts := []signblock.Option{
		signblock.WithLogger(a.log.Logger),
		signblock.WithMetrics(a.metrics),
	}
	if cfg.Verify.AllowHighS {
		a.log.Warn("high-S signatures accepted")
		opts = append(opts, signblock.WithSignatureChecker(sigverify.New(sigverify.AllowHighS())))
	}
	a.verifier = signblock.New(opts...)
	return nil
}

func (a *app) teardown() {
	if a.registry != nil {
		a.logMetrics()
	}
	_ = a.log.Sync()
}

// logMetrics writes the counters collected during this run to the log.
func (a *app) logMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.log.Warn("failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			args := []interface{}{"metric", mf.GetName()}
			for _, lp := range m.GetLabel() {
				args = append(args, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				args = append(args, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				args = append(args,
					"count", m.GetHistogram().GetSampleCount(),
					"sum", m.GetHistogram().GetSampleSum())
			}
			a.log.Info("metrics", args...)
		}
	}
}
