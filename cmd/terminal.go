package cmd

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"

	"simulador/internal/budget"
	"simulador/pkg/money"
)

var levelColors = map[budget.Level]*color.Color{
	budget.LevelSuccess: color.New(color.FgGreen, color.Bold),
	budget.LevelInfo:    color.New(color.FgCyan),
	budget.LevelWarning: color.New(color.FgYellow),
	budget.LevelError:   color.New(color.FgRed, color.Bold),
}

var bandColors = map[string]color.Attribute{
	"red":    color.FgRed,
	"orange": color.FgYellow,
	"green":  color.FgGreen,
	"blue":   color.FgBlue,
}

// terminal serializes output written by the shell and by session callbacks,
// which run on timer goroutines.
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

// Notify implements budget.Notifier.
func (t *terminal) Notify(n budget.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := levelColors[n.Level]
	if !ok {
		c = color.New(color.Reset)
	}
	c.Fprintf(t.out, "[%s]", n.Title)
	if n.Description != "" {
		fmt.Fprintf(t.out, " %s", n.Description)
	}
	fmt.Fprintln(t.out)
}

func (t *terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// profitability prints the one line reading of a settled evaluation.
func (t *terminal) profitability(snap budget.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprint(t.out, "Lucratividade: ")
	writeBand(t.out, snap)
	fmt.Fprintln(t.out)
}

func (t *terminal) summary(snap budget.Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	if err := renderSnapshot(tw, snap); err != nil {
		return err
	}
	return tw.Flush()
}

func writeBand(w io.Writer, snap budget.Snapshot) {
	text := budget.FormatProfitability(snap.Profitability)
	if snap.Band != budget.BandNone {
		text += fmt.Sprintf(" (%s) %s", snap.Band.Label(), snap.Band.Message())
	}

	if attr, ok := bandColors[snap.Band.Color()]; ok {
		color.New(attr).Fprint(w, text)
		return
	}
	fmt.Fprint(w, text)
}

func costAmount(c budget.OtherCost) string {
	if c.CostType == budget.CostPercentage {
		return c.Amount.String() + "%"
	}
	return money.FromDecimal(c.Amount).String()
}

func renderSnapshot(w io.Writer, snap budget.Snapshot) error {
	if len(snap.Items) > 0 {
		fmt.Fprintln(w, "ITEM\tPRODUTO\tQTD\tUNITÁRIO\tDESCONTO\tTOTAL")
		for _, item := range snap.Items {
			name := item.ProductName
			if name == "" {
				name = item.ProductID
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				item.ID, name, item.Quantity, item.UnitPrice, item.Discount, item.TotalPrice())
		}
		fmt.Fprintln(w)
	}

	if len(snap.OtherCosts) > 0 {
		fmt.Fprintln(w, "CUSTO\tDESCRIÇÃO\tTIPO\tVALOR")
		for _, c := range snap.OtherCosts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Description, c.CostType, costAmount(c))
		}
		fmt.Fprintln(w)
	}

	if len(snap.Services) > 0 {
		fmt.Fprintln(w, "SERVIÇO\tNOME\tCUSTO")
		for _, s := range snap.Services {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.Cost)
		}
		fmt.Fprintln(w)
	}

	suggested := "—"
	if snap.SuggestedPrice != nil {
		suggested = fmt.Sprintf("%s (custo + %d%%)", *snap.SuggestedPrice, budget.SuggestedMargin)
	}
	value := snap.TotalValue.String()
	if !snap.TotalValueSetByUser && snap.TotalValue > 0 {
		value += " (sugerido)"
	}

	fmt.Fprintf(w, "Subtotal dos itens:\t%s\n", snap.Breakdown.Items)
	fmt.Fprintf(w, "Custos fixos:\t%s\n", snap.Breakdown.Fixed)
	fmt.Fprintf(w, "Custos percentuais:\t%s\n", snap.Breakdown.Percentage)
	fmt.Fprintf(w, "Serviços:\t%s\n", snap.Breakdown.Services)
	fmt.Fprintf(w, "Custo total:\t%s\n", snap.TotalCost)
	fmt.Fprintf(w, "Preço sugerido:\t%s\n", suggested)
	fmt.Fprintf(w, "Valor de venda:\t%s\n", value)
	fmt.Fprint(w, "Lucratividade:\t")
	writeBand(w, snap)
	fmt.Fprintln(w)
	return nil
}
