package budget

import "fmt"

// Band is the qualitative reading of a profitability percentage.
type Band string

const (
	BandNone      Band = "none"
	BandLoss      Band = "loss"
	BandLow       Band = "low"
	BandGood      Band = "good"
	BandExcellent Band = "excellent"
)

// BandFor classifies a profitability percentage. A nil percentage means the
// value is not known.
func BandFor(p *float64) Band {
	switch {
	case p == nil:
		return BandNone
	case *p < 0:
		return BandLoss
	case *p < 10:
		return BandLow
	case *p < 20:
		return BandGood
	default:
		return BandExcellent
	}
}

var bandStyles = map[Band]struct {
	color, hex, label, message string
}{
	BandNone:      {"", "", "—", ""},
	BandLoss:      {"red", "#f5222d", "Prejuízo", "Prejuízo! Revise os custos ou aumente o valor total."},
	BandLow:       {"orange", "#faad14", "Baixa", "Lucratividade baixa. Considere ajustar os valores."},
	BandGood:      {"green", "#52c41a", "Boa", "Lucratividade boa."},
	BandExcellent: {"blue", "#1890ff", "Excelente", "Lucratividade excelente!"},
}

// Color returns the color name of the band.
func (b Band) Color() string { return bandStyles[b].color }

// Hex returns the hex color used by the dashboard.
func (b Band) Hex() string { return bandStyles[b].hex }

// Label returns a short Portuguese label.
func (b Band) Label() string { return bandStyles[b].label }

// Message returns the advice shown next to the percentage.
func (b Band) Message() string { return bandStyles[b].message }

// FormatProfitability renders a percentage with two decimals, or "—" when unknown.
func FormatProfitability(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", *p)
}
