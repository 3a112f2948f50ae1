package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lmarzen/ompdataperf/internal/codeloc"
	"github.com/lmarzen/ompdataperf/internal/engine"
	"github.com/lmarzen/ompdataperf/internal/fingerprint"
	"github.com/lmarzen/ompdataperf/internal/ingest"
	"github.com/lmarzen/ompdataperf/internal/metrics"
	"github.com/lmarzen/ompdataperf/internal/report"
	"github.com/lmarzen/ompdataperf/internal/symbolize"
	"github.com/lmarzen/ompdataperf/pkg/config"
	"github.com/lmarzen/ompdataperf/pkg/logutil"
)

const version = "0.0.1-alpha"

var (
	flagConfigFile  string
	flagVerbose     bool
	flagListCap     int
	flagSublistCap  int
	flagCollisions  bool
	flagMetricsAddr string
	flagNumDevices  int
	flagSymbolFile  string
)

func newRootCmd(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "ompdataperf-report",
		Short: "Analyze a GPU data-movement capture log and report inefficiencies",
	}

	root.PersistentFlags().StringVar(&flagConfigFile, "config", "", "path to an optional YAML config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose console logging")
	root.PersistentFlags().IntVar(&flagListCap, "list-cap", 24, "max rows rendered per report section")
	root.PersistentFlags().IntVar(&flagSublistCap, "sublist-cap", 8, "max sub-rows rendered per finding group")
	root.PersistentFlags().BoolVar(&flagCollisions, "collision-auditing", false, "enable fingerprint collision auditing")
	root.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (empty disables)")
	root.PersistentFlags().IntVar(&flagNumDevices, "num-devices", 1, "number of non-host target devices in the run")
	root.PersistentFlags().StringVar(&flagSymbolFile, "symbol-file", "", "path to the profiled binary, for symbolization (empty disables)")

	root.AddCommand(newAnalyzeCmd(ctx))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of ompdataperf-report",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ompdataperf-report version %s\n", version)
			return nil
		},
	}
}

func newAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [capture-log]",
		Short: "Analyze a capture-log file and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(ctx, cmd, args)
		},
	}
	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := logutil.InitLogger(flagVerbose); err != nil {
		return fmt.Errorf("analyze: init logger: %w", err)
	}
	logger := logutil.GetLogger()
	defer logger.Sync()

	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	cfg, err := config.Load(flagConfigFile, fs)
	if err != nil {
		return fmt.Errorf("analyze: load config: %w", err)
	}
	if cmd.Flags().Changed("list-cap") && flagListCap > 0 {
		cfg.ListCap = flagListCap
	}
	if cmd.Flags().Changed("sublist-cap") && flagSublistCap > 0 {
		cfg.SublistCap = flagSublistCap
	}
	cfg.CollisionAuditing = cfg.CollisionAuditing || flagCollisions

	capturePath := cfg.CaptureLogPath
	if len(args) == 1 {
		capturePath = args[0]
	}
	if capturePath == "" {
		return fmt.Errorf("analyze: no capture-log file specified")
	}

	f, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("analyze: open capture log: %w", err)
	}
	defer f.Close()

	metricsAddr := cfg.MetricsAddr
	if flagMetricsAddr != "" {
		metricsAddr = flagMetricsAddr
	}

	var reg *metrics.Registry
	if metricsAddr != "" {
		reg = metrics.New()
		go func() {
			if err := reg.Serve(ctx, metricsAddr); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	eng := engine.New(engine.Config{
		ListCap:           cfg.ListCap,
		SublistCap:        cfg.SublistCap,
		CollisionAuditing: cfg.CollisionAuditing,
	}, fingerprint.NewDefault(), flagNumDevices, logger)

	var obs ingest.Observer
	if reg != nil {
		obs = reg
	}

	ingested, skipped, ingestErr := ingest.Decode(ctx, f, eng, obs)
	logger.Info("ingest complete", zap.Int("ingested", ingested), zap.Int("skipped", skipped))
	if ingestErr != nil {
		logger.Warn("ingest anomalies", zap.Error(ingestErr))
	}

	analysisStart := time.Now()
	findings, finalizeErr := eng.Finalize(ctx)
	if finalizeErr != nil {
		logger.Warn("finalize warnings", zap.Error(finalizeErr))
	}

	if reg != nil {
		reg.ObserveAnalysis(time.Since(analysisStart))
		reg.RecordLocationAggregates(codeloc.ToLocationAggregates(findings.CodeLocations))
		for device, bytes := range findings.Peak {
			reg.SetPeakBytes(fmt.Sprintf("%d", device), bytes)
		}
	}

	var symbolizer symbolize.Symbolizer
	if flagSymbolFile != "" {
		symbolizer = symbolize.NewELFSymbolizer(flagSymbolFile)
	}

	report.Render(cmd.OutOrStdout(), symbolizer, cfg.ListCap, cfg.SublistCap, flagVerbose, *findings)
	return nil
}
