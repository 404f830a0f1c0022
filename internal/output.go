package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// dateLayout is how due dates are rendered in reports.
const dateLayout = "2006-01-02"

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, rep Report) error
}

// RendererFunc is a function that implements Renderer.
type RendererFunc func(w io.Writer, rep Report) error

func (f RendererFunc) Render(w io.Writer, rep Report) error {
	return f(w, rep)
}

// renderers is the registry of available output formats
var renderers = map[string]Renderer{}

// RegisterRenderer registers an output format with the given name
func RegisterRenderer(name string, r Renderer) {
	renderers[name] = r
}

// GetRenderer returns the renderer for the given output format
func GetRenderer(name string) (Renderer, error) {
	r, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s (available: %v)", name, AvailableOutputs())
	}
	return r, nil
}

// AvailableOutputs returns the registered output format names, sorted.
func AvailableOutputs() []string {
	var names []string
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RenderTables writes the basic and extra reports as formatted tables.
func RenderTables(w io.Writer, rep Report) error {
	renderBasicTable(w, rep.Basic)
	fmt.Fprintln(w)
	renderExtraTable(w, rep.Extra)
	return nil
}

func renderBasicTable(w io.Writer, infos []DebtInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Id", "Amount", "Payment Plan"})

	for _, info := range infos {
		plan := text.FgGreen.Sprint("yes")
		if !info.InPaymentPlan {
			plan = text.FgHiBlack.Sprint("no")
		}
		t.AppendRow(table.Row{info.ID, fmt.Sprintf("%.2f", info.Amount), plan})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

func renderExtraTable(w io.Writer, infos []DebtInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Id", "Amount", "Payment Plan", "Remaining Amount", "Next Payment Due"})

	for _, info := range infos {
		plan := text.FgGreen.Sprint("yes")
		if !info.InPaymentPlan {
			plan = text.FgHiBlack.Sprint("no")
		}
		remaining := "N/A"
		due := "N/A"
		if info.Extra != nil {
			remaining = fmt.Sprintf("%.2f", info.Extra.RemainingAmount)
			if info.Extra.NextPaymentDueDate != nil {
				due = info.Extra.NextPaymentDueDate.Format(dateLayout)
			}
		}
		t.AppendRow(table.Row{info.ID, fmt.Sprintf("%.2f", info.Amount), plan, remaining, due})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// JSONReport is the structured dump emitted in json output mode. The test
// harness consumes this instead of the formatted tables.
type JSONReport struct {
	Basic []JSONBasicDebt `json:"basic"`
	Extra []JSONExtraDebt `json:"extra"`
}

// JSONBasicDebt mirrors one basic report row.
type JSONBasicDebt struct {
	ID            int     `json:"id"`
	Amount        float64 `json:"amount"`
	InPaymentPlan bool    `json:"in_payment_plan"`
}

// JSONExtraDebt mirrors one extra report row. NextPaymentDueDate is null when
// the debt has no plan or is paid off.
type JSONExtraDebt struct {
	ID                 int     `json:"id"`
	Amount             float64 `json:"amount"`
	InPaymentPlan      bool    `json:"in_payment_plan"`
	RemainingAmount    float64 `json:"remaining_amount"`
	NextPaymentDueDate *string `json:"next_payment_due_date"`
}

// RenderJSON writes the report as an indented JSON document.
func RenderJSON(w io.Writer, rep Report) error {
	out := JSONReport{
		Basic: make([]JSONBasicDebt, 0, len(rep.Basic)),
		Extra: make([]JSONExtraDebt, 0, len(rep.Extra)),
	}

	for _, info := range rep.Basic {
		out.Basic = append(out.Basic, JSONBasicDebt{
			ID:            info.ID,
			Amount:        info.Amount,
			InPaymentPlan: info.InPaymentPlan,
		})
	}
	for _, info := range rep.Extra {
		row := JSONExtraDebt{
			ID:            info.ID,
			Amount:        info.Amount,
			InPaymentPlan: info.InPaymentPlan,
		}
		if info.Extra != nil {
			row.RemainingAmount = info.Extra.RemainingAmount
			if info.Extra.NextPaymentDueDate != nil {
				due := info.Extra.NextPaymentDueDate.Format(dateLayout)
				row.NextPaymentDueDate = &due
			}
		}
		out.Extra = append(out.Extra, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	// Register built-in renderers
	RegisterRenderer("table", RendererFunc(RenderTables))
	RegisterRenderer("json", RendererFunc(RenderJSON))
}
