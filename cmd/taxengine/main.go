// SPDX-License-Identifier: EPL-2.0
// Copyright (c) 2025-present Marko Kocić <marko@euptera.com>

// Command taxengine is the reference CLI front-end for the tax computation
// core: it reads one or more CSV transaction exports, runs the gain/loss
// engine per asset (in parallel, since assets are fully independent), and
// prints a yearly summary. It plays the same role the teacher CLI's main()
// did, rebuilt on cobra for flag parsing the way the rest of the retrieved
// pack does it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cryptotax/pkg/accounting"
	_ "cryptotax/pkg/accounting/fifo"
	_ "cryptotax/pkg/accounting/hifo"
	_ "cryptotax/pkg/accounting/lifo"
	_ "cryptotax/pkg/accounting/lofo"
	_ "cryptotax/pkg/accounting/totalaverage"
	"cryptotax/pkg/balance"
	"cryptotax/pkg/computeddata"
	"cryptotax/pkg/config"
	"cryptotax/pkg/engine"
	"cryptotax/pkg/rp2log"
	"cryptotax/pkg/transform"

	"cryptotax/internal/csvimport"
	"cryptotax/internal/report"
)

type runOptions struct {
	configPath string
	method     string
	year       int
	fromDate   string
	toDate     string
	verbose    bool
}

func main() {
	opts := &runOptions{}
	root := &cobra.Command{
		Use:   "taxengine [csv files...]",
		Short: "Compute crypto capital gains from CSV transaction exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	root.Flags().StringVar(&opts.configPath, "config", "", "path to a TOML configuration file")
	root.Flags().StringVar(&opts.method, "method", "fifo", "accounting method: "+fmt.Sprint(accounting.Names()))
	root.Flags().IntVar(&opts.year, "year", 0, "restrict the report to a single tax year (0 = all years)")
	root.Flags().StringVar(&opts.fromDate, "from-date", "", "reporting window start (YYYY-MM-DD), inclusive; overrides the config file")
	root.Flags().StringVar(&opts.toDate, "to-date", "", "reporting window end (YYYY-MM-DD), inclusive; overrides the config file")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every individual pairing, not just yearly totals")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "taxengine:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *runOptions, paths []string) error {
	runID := uuid.New().String()
	rp2log.Configure(opts.verbose, os.Stderr)
	log := rp2log.Logger().With().Str("run_id", runID).Logger()
	log.Info().Strs("files", paths).Str("method", opts.method).Msg("starting run")

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.AccountingMethodName = opts.method
	if opts.fromDate != "" {
		d, err := time.Parse("2006-01-02", opts.fromDate)
		if err != nil {
			return fmt.Errorf("--from-date: %w", err)
		}
		cfg.FromDate = d
	}
	if opts.toDate != "" {
		d, err := time.Parse("2006-01-02", opts.toDate)
		if err != nil {
			return fmt.Errorf("--to-date: %w", err)
		}
		cfg.ToDate = d.Add(24*time.Hour - time.Nanosecond)
	}

	var result csvimport.Result
	for _, path := range paths {
		parsed, err := csvimport.ImportFile(cfg, path)
		if err != nil {
			return err
		}
		result.Acquisitions = append(result.Acquisitions, parsed.Acquisitions...)
		result.Disposals = append(result.Disposals, parsed.Disposals...)
		result.Transfers = append(result.Transfers, parsed.Transfers...)
	}

	books, err := transform.Build(cfg, result.Acquisitions, result.Disposals, result.Transfers)
	if err != nil {
		return err
	}

	group, _ := errgroup.WithContext(ctx)
	computed := make([]computeddata.ComputedData, len(books))
	i := 0
	indexOf := map[string]int{}
	for asset := range books {
		indexOf[asset] = i
		i++
	}

	for asset, book := range books {
		asset, book, idx := asset, book, indexOf[asset]
		group.Go(func() error {
			method, err := accounting.New(opts.method)
			if err != nil {
				return err
			}
			gainLosses, err := engine.Compute(cfg, method, book.Acquisitions.Sorted(), book.Disposals.Sorted())
			if err != nil {
				return fmt.Errorf("asset %s: %w", asset, err)
			}
			balances, err := balance.Compute(book, cfg.ToDate)
			if err != nil {
				return fmt.Errorf("asset %s: %w", asset, err)
			}
			computed[idx] = computeddata.Build(cfg, asset, gainLosses, balances)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return report.PrintSummary(os.Stdout, computed, report.Options{Year: opts.year, Verbose: opts.verbose})
}
