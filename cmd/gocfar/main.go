// Command gocfar runs CFAR detection over range profiles and traffic captures.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hed1ad/gocfar/internal/config"
	"github.com/hed1ad/gocfar/internal/log"
	"github.com/hed1ad/gocfar/pkg/detectors"
	"github.com/hed1ad/gocfar/pkg/detectors/cfar"
	gio "github.com/hed1ad/gocfar/pkg/io"
	"github.com/hed1ad/gocfar/pkg/io/csv"
)

type rootOptions struct {
	configPath string
	output     string
	workers    int
	debug      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gocfar",
		Short:         "Constant false alarm rate detection for range profiles",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()
			return log.Init(opts.debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "detector config file (default: setting/CFAR.yaml or ./CFAR.yaml)")
	flags.StringVarP(&opts.output, "output", "o", "-", "CSV file for decisions, - for stdout")
	flags.IntVar(&opts.workers, "workers", runtime.NumCPU(), "goroutines per scan")
	flags.BoolVar(&opts.debug, "debug", false, "enable development logging")

	root.AddCommand(newScanCmd(opts), newCaptureCmd(opts))
	return root
}

// detector loads the configuration and builds the detector.
func (o *rootOptions) detector() (*cfar.Detector, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		log.Errorw("invalid configuration", "path", o.configPath, "error", err)
		return nil, err
	}

	det, err := cfar.New(cfg, cfar.WithWorkers(o.workers), cfar.WithLogger(log.Logger()))
	if err != nil {
		return nil, err
	}

	log.Infow("detector ready",
		"guard_cell", cfg.GuardCells,
		"reference_cell", cfg.ReferenceCells,
		"pfa", cfg.Pfa,
		"distribution", cfg.Distribution,
		"estimator", cfg.Estimator,
		"boundary", cfg.Boundary,
		"factor", det.Factor(),
	)
	return det, nil
}

func (o *rootOptions) writer() (gio.Writer, error) {
	if o.output == "" || o.output == "-" {
		return csv.NewWriterTo(os.Stdout), nil
	}
	return csv.NewWriter(o.output)
}

// pipeline scans every profile from profiles and writes the decisions to w.
// A profile the detector configuration cannot cover stops the pipeline;
// profiles rejected for their samples are logged and skipped.
func pipeline(ctx context.Context, det detectors.StreamDetector, profiles <-chan []float64, w gio.Writer) error {
	frames := make(chan detectors.Frame, 4)
	markers := detectors.DefaultMarkers()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		return det.ScanStream(ctx, profiles, frames)
	})
	g.Go(func() error {
		var scanned, rejected, targets int
		for f := range frames {
			if errors.Is(f.Err, cfar.ErrConfiguration) {
				return fmt.Errorf("frame %d: %w", f.Seq, f.Err)
			}
			if f.Err != nil {
				rejected++
				log.Warnw("profile skipped", "frame", f.Seq, "error", f.Err)
				continue
			}
			if err := w.WriteAll(gio.Results(f.Seq, f.Decisions, markers)); err != nil {
				return err
			}
			scanned++
			targets += f.Count()
			log.Debugw("profile scanned", "frame", f.Seq, "cells", len(f.Decisions), "targets", f.Count())
		}
		log.Infow("scan finished", "frames", scanned, "rejected", rejected, "targets", targets)
		return nil
	})

	return g.Wait()
}
