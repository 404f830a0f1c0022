package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"go.uber.org/zap"

	"github.com/gigurra/debt-report/internal"
)

type Params struct {
	Config  string `descr:"Path to the config file" default:"debt_config"`
	Mode    string `descr:"Debt discovery mode: load all upfront, or generate sequential ids" default:"load" alts:"load,generate"`
	Output  string `descr:"Output format" default:"table" alts:"table,json,xlsx"`
	OutFile string `descr:"Target file for xlsx output" default:"debt_report.xlsx"`
	Verbose bool   `descr:"Enable debug logging"`
}

func main() {
	boa.NewCmdT[Params]("debt-report").
		WithShort("Report debts and their payment plan status").
		WithLong("Fetches Debts, PaymentPlans and Payments from the debt-tracking API, derives per-debt status (in payment plan, remaining amount, next payment due date) and renders the basic and extra debt reports.").
		WithRunFunc(run).
		Run()
}

func run(params *Params) {
	cfg, err := internal.LoadConfig(params.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open config file : %v\n", err)
		os.Exit(1)
	}

	mode, err := internal.ParseMode(params.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	renderer, err := internal.GetRenderer(params.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if params.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot initialize logging : %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	// Schedule dates parse as UTC midnights; anchor the reference time the
	// same way so day counts stay whole.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	client := internal.NewClient(cfg, logger)
	runner := internal.NewRunner(client, cfg, today)

	report, err := runner.Run(context.Background(), mode)
	if err != nil {
		// Single diagnostic line; the batch stops on the first failure.
		fmt.Printf("***ERROR*** %v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if params.Output == "xlsx" {
		f, err := os.Create(params.OutFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot create output file : %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := renderer.Render(out, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report : %v\n", err)
		os.Exit(1)
	}
	if params.Output == "xlsx" {
		fmt.Printf("Wrote %s\n", params.OutFile)
	}
}
