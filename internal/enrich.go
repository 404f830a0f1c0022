package internal

import (
	"context"
	"fmt"
	"math"
	"time"
)

// PlanSource provides the lookups the enricher needs. *Client implements it;
// tests substitute an in-memory fixture.
type PlanSource interface {
	FetchPaymentPlans(ctx context.Context, debtID int) ([]PaymentPlan, error)
	FetchPayments(ctx context.Context, planID int) ([]Payment, error)
}

// Enricher derives payment plan status fields for debts. It is a pure
// function of its inputs: the reference time is injected, so identical inputs
// always produce identical results.
type Enricher struct {
	Source      PlanSource
	Frequencies map[string]int // frequency tag -> period in days
	DateFormats []string
	Now         time.Time
}

func (e *Enricher) debtAmount(d Debt) (float64, error) {
	amount, ok := toAmount(d.Amount)
	if !ok || amount < 0 {
		return 0, &InvalidAmountError{DebtID: d.ID, Raw: d.Amount}
	}
	return amount, nil
}

// planFor returns the debt's payment plan, or nil when it has none. More than
// one plan record is corrupt data.
func (e *Enricher) planFor(ctx context.Context, d Debt) (*PaymentPlan, error) {
	plans, err := e.Source.FetchPaymentPlans(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if len(plans) > 1 {
		return nil, &CorruptDataError{Kind: "payment plan", DebtID: d.ID}
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

// EnrichBasic resolves the in-payment-plan flag only; Extra stays nil.
func (e *Enricher) EnrichBasic(ctx context.Context, d Debt) (DebtInfo, error) {
	amount, err := e.debtAmount(d)
	if err != nil {
		return DebtInfo{}, err
	}
	plan, err := e.planFor(ctx, d)
	if err != nil {
		return DebtInfo{}, err
	}
	return DebtInfo{ID: d.ID, Amount: amount, InPaymentPlan: plan != nil}, nil
}

// Enrich computes the full derived record: in-payment-plan flag, remaining
// principal, and the next scheduled installment date on or after Now. The due
// date follows the recurring schedule anchored at the plan start date,
// regardless of when payments were actually made.
func (e *Enricher) Enrich(ctx context.Context, d Debt) (DebtInfo, error) {
	amount, err := e.debtAmount(d)
	if err != nil {
		return DebtInfo{}, err
	}
	plan, err := e.planFor(ctx, d)
	if err != nil {
		return DebtInfo{}, err
	}

	info := DebtInfo{ID: d.ID, Amount: amount}
	if plan == nil {
		info.Extra = &DebtExtra{RemainingAmount: amount}
		return info, nil
	}
	info.InPaymentPlan = true

	start, err := ParseDate(plan.StartDate,
		fmt.Sprintf("Start date for payment plan id '%d'", plan.ID), e.DateFormats)
	if err != nil {
		return DebtInfo{}, err
	}

	tag, ok := plan.InstallmentFrequency.(string)
	period := 0
	if ok {
		period, ok = e.Frequencies[tag]
	}
	if !ok {
		return DebtInfo{}, &UnrecognizedFrequencyError{PlanID: plan.ID, Raw: plan.InstallmentFrequency}
	}

	due := nextDueDate(start, period, e.Now)

	payments, err := e.Source.FetchPayments(ctx, plan.ID)
	if err != nil {
		return DebtInfo{}, err
	}
	if len(payments) == 0 {
		info.Extra = &DebtExtra{RemainingAmount: amount, NextPaymentDueDate: &due}
		return info, nil
	}

	remaining := amount
	for _, p := range payments {
		paid, ok := toAmount(p.Amount)
		if !ok {
			return DebtInfo{}, &InvalidPaymentError{PlanID: plan.ID, RawAmount: p.Amount, RawDate: p.Date}
		}
		remaining -= paid
	}

	extra := &DebtExtra{RemainingAmount: remaining}
	// Exactly zero means paid off; the scheduled date no longer applies.
	if remaining != 0 {
		extra.NextPaymentDueDate = &due
	}
	info.Extra = extra
	return info, nil
}

// nextDueDate returns the first date in the schedule start, start+period,
// start+2*period, ... that falls on or after now. Whole-day and period
// arithmetic both round toward negative infinity, so a plan starting in the
// future yields the start date itself, or one period earlier when the gap is
// an exact multiple; the schedule is anchored, not clamped.
func nextDueDate(start time.Time, periodDays int, now time.Time) time.Time {
	elapsed := int(math.Floor(now.Sub(start).Hours() / 24))
	k := elapsed / periodDays
	if elapsed%periodDays != 0 {
		if elapsed < 0 {
			k--
		}
		k++
	}
	return start.AddDate(0, 0, k*periodDays)
}
