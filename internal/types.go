package internal

import "time"

// Raw API records. Amounts, dates and frequency tags arrive untyped because
// the upstream database does not enforce them; they are validated during
// enrichment, not at decode time.

// Debt is one record from the Debts resource.
type Debt struct {
	ID     int `json:"id"`
	Amount any `json:"amount"` // must coerce to a non-negative finite number
}

// PaymentPlan is one record from the PaymentPlans resource. A debt has zero
// or one plan; more than one is corrupt data.
type PaymentPlan struct {
	ID                   int     `json:"id"`
	DebtID               int     `json:"debt_id"`
	AmountToPay          float64 `json:"amount_to_pay"`
	InstallmentAmount    float64 `json:"installment_amount"`
	InstallmentFrequency any     `json:"installment_frequency"`
	StartDate            any     `json:"start_date"`
}

// Payment is one record from the Payments resource.
type Payment struct {
	PaymentPlanID int `json:"payment_plan_id"`
	Amount        any `json:"amount"`
	Date          any `json:"date"`
}

// DebtInfo is the derived view of a debt, recomputed on every run. The basic
// report carries only the payment plan flag; the extra report fills in Extra.
type DebtInfo struct {
	ID            int
	Amount        float64
	InPaymentPlan bool
	Extra         *DebtExtra
}

// DebtExtra holds the extended status fields. NextPaymentDueDate is nil when
// the debt has no plan or is fully paid off.
type DebtExtra struct {
	RemainingAmount    float64
	NextPaymentDueDate *time.Time
}
