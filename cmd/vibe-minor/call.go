package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-minor/internal/caller"
	"github.com/inodb/vibe-minor/internal/haplotype"
	"github.com/inodb/vibe-minor/internal/msa"
	"github.com/inodb/vibe-minor/internal/output"
	"github.com/inodb/vibe-minor/internal/target"
)

func newCallCmd() *cobra.Command {
	var (
		targetPath    string
		outputPath    string
		summaryPath   string
		windowBegin   int
		workers       int
		verbose       bool
		mergeOutliers bool
		debug         bool
		drmOnly       bool
		minPerc       float64
		maxPerc       float64
		subRate       float64
		delRate       float64
	)

	cmd := &cobra.Command{
		Use:   "call [flags] <alignment>",
		Short: "Call minor variants and phase haplotypes from an aligned FASTA",
		Long: `Call minor amino-acid variants from an aligned FASTA file (use '-' for
stdin). The target configuration YAML provides gene regions, an optional
reference sequence, known resistance mutations, and expected minors.
Without it, the whole input window is treated as one unnamed gene.`,
		Example: `  vibe-minor call aligned.fasta
  vibe-minor call --target hiv-pol.yaml --merge-outliers -o report.json aligned.fasta.gz
  vibe-minor call --target hiv-pol.yaml --drm-only --summary haplotypes.tsv aligned.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			defer logger.Sync()

			cfg, err := loadTarget(targetPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("merge-outliers") {
				cfg.MergeOutliers = mergeOutliers
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			if cmd.Flags().Changed("drm-only") {
				cfg.DRMOnly = drmOnly
			}
			if cmd.Flags().Changed("min-perc") {
				cfg.MinPerc = minPerc
			}
			if cmd.Flags().Changed("max-perc") {
				cfg.MaxPerc = maxPerc
			}
			if cmd.Flags().Changed("sub") || cmd.Flags().Changed("del") {
				cfg.ErrorModel = target.ErrorModel{
					Match:        1 - subRate - delRate,
					Substitution: subRate,
					Deletion:     delRate,
				}
			}
			cfg.Verbose = verbose

			m, err := msa.Read(args[0], windowBegin)
			if err != nil {
				return err
			}
			logger.Info("alignment loaded",
				zap.Int("reads", len(m.Rows)),
				zap.Int("begin", m.BeginPos),
				zap.Int("end", m.EndPos))

			c := caller.New(m, cfg)
			c.SetLogger(logger)
			c.SetWorkers(workers)
			res := c.Run()

			ph := haplotype.New(m, res.Genes, cfg)
			ph.SetLogger(logger)
			hap := ph.Run()

			rep := output.Assemble(res, hap)

			out := os.Stdout
			if outputPath != "" {
				out, err = os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer out.Close()
			}
			if err := output.WriteJSON(out, rep); err != nil {
				return err
			}

			if summaryPath != "" {
				if err := writeSummary(summaryPath, hap); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "target", "t", "", "Target configuration YAML")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file (default: stdout)")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "Write a tab-delimited haplotype summary to this file")
	cmd.Flags().IntVar(&windowBegin, "window-begin", 1, "Absolute position of the first alignment column")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = one per CPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().BoolVar(&mergeOutliers, "merge-outliers", false, "Soft-collapse filtered haplotypes onto generators")
	cmd.Flags().BoolVar(&debug, "debug", false, "Report all codons above the display floor, bypassing significance gating")
	cmd.Flags().BoolVar(&drmOnly, "drm-only", false, "Restrict reporting to known resistance mutations")
	cmd.Flags().Float64Var(&minPerc, "min-perc", target.DefaultMinPerc, "Minimal reported frequency (debug mode floor)")
	cmd.Flags().Float64Var(&maxPerc, "max-perc", target.DefaultMaxPerc, "Majority share above which a diverging majority becomes an alternate reference")
	cmd.Flags().Float64Var(&subRate, "sub", 0.003, "Per-base substitution rate of the error model")
	cmd.Flags().Float64Var(&delRate, "del", 0.002, "Per-base deletion rate of the error model")

	viper.BindPFlag("call.merge_outliers", cmd.Flags().Lookup("merge-outliers"))
	viper.BindPFlag("call.drm_only", cmd.Flags().Lookup("drm-only"))

	return cmd
}

// loadTarget reads the target configuration, or returns a defaulted empty
// configuration when no file was given.
func loadTarget(path string) (*target.Config, error) {
	if path == "" {
		return target.Parse(nil)
	}
	return target.Load(path)
}

func writeSummary(path string, hap *haplotype.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()

	tw := output.NewTabWriter(f)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, h := range hap.Haplotypes {
		if err := tw.Write(h); err != nil {
			return err
		}
	}
	if err := tw.WriteCounts(hap.Counts); err != nil {
		return err
	}
	return tw.Flush()
}

// newLogger builds a console logger; verbose enables debug level.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
