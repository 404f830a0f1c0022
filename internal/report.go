package internal

import (
	"context"
	"fmt"
	"time"
)

// DebtSource is the full API surface the report runner consumes.
type DebtSource interface {
	PlanSource
	FetchDebts(ctx context.Context) ([]Debt, error)
	FetchDebt(ctx context.Context, id int) (Debt, bool, error)
}

// Mode selects how debt records are discovered.
type Mode string

const (
	// ModeLoad fetches the full debt list upfront.
	ModeLoad Mode = "load"
	// ModeGenerate walks sequential debt ids from zero, fetching one record
	// at a time, until an id is not found.
	ModeGenerate Mode = "generate"
)

// ParseMode accepts the mode names and their single-letter short forms.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "load", "l":
		return ModeLoad, nil
	case "generate", "g":
		return ModeGenerate, nil
	default:
		return "", fmt.Errorf("incorrect run mode %q: expected 'load' or 'generate'", s)
	}
}

// Report bundles the two views produced by one run.
type Report struct {
	Basic []DebtInfo
	Extra []DebtInfo
}

// Runner assembles debt reports. Enrichment is fail-fast: the first error
// halts the whole batch and no partial results are kept.
type Runner struct {
	Source   DebtSource
	Enricher *Enricher
}

// NewRunner wires a runner from a source and config, evaluating schedules
// against the given reference time.
func NewRunner(source DebtSource, cfg *Config, now time.Time) *Runner {
	return &Runner{
		Source: source,
		Enricher: &Enricher{
			Source:      source,
			Frequencies: cfg.Tables.PaymentPlans.FrequencyToDays,
			DateFormats: cfg.DateFormats,
			Now:         now,
		},
	}
}

// Run produces both reports for the chosen mode.
func (r *Runner) Run(ctx context.Context, mode Mode) (Report, error) {
	switch mode {
	case ModeGenerate:
		basic, err := r.generate(ctx, r.Enricher.EnrichBasic)
		if err != nil {
			return Report{}, err
		}
		extra, err := r.generate(ctx, r.Enricher.Enrich)
		if err != nil {
			return Report{}, err
		}
		return Report{Basic: basic, Extra: extra}, nil
	default:
		debts, err := r.Source.FetchDebts(ctx)
		if err != nil {
			return Report{}, err
		}
		basic, err := enrichAll(ctx, debts, r.Enricher.EnrichBasic)
		if err != nil {
			return Report{}, err
		}
		extra, err := enrichAll(ctx, debts, r.Enricher.Enrich)
		if err != nil {
			return Report{}, err
		}
		return Report{Basic: basic, Extra: extra}, nil
	}
}

func enrichAll(ctx context.Context, debts []Debt, enrich func(context.Context, Debt) (DebtInfo, error)) ([]DebtInfo, error) {
	infos := make([]DebtInfo, 0, len(debts))
	for _, d := range debts {
		info, err := enrich(ctx, d)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (r *Runner) generate(ctx context.Context, enrich func(context.Context, Debt) (DebtInfo, error)) ([]DebtInfo, error) {
	infos := []DebtInfo{}
	for id := 0; ; id++ {
		debt, found, err := r.Source.FetchDebt(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return infos, nil
		}
		info, err := enrich(ctx, debt)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
}
