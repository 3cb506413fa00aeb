// Package chart picks a chart for an extracted table by its column names and
// renders chart specs to SVG or PNG.
package chart

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tindapay/dashboard/internal/models"
)

// SuffixContract is the version of the column suffix scheme the signatures
// below are written against. It must match the layout catalog's
// suffix_contract.
const SuffixContract = 1

// ErrContractMismatch means the catalog and the signatures disagree on the
// suffix scheme.
var ErrContractMismatch = errors.New("suffix contract mismatch")

// CheckContract verifies a catalog suffix contract version.
func CheckContract(catalogVersion int) error {
	if catalogVersion != SuffixContract {
		return fmt.Errorf("%w: catalog uses %d, charts expect %d", ErrContractMismatch, catalogVersion, SuffixContract)
	}
	return nil
}

// Signature families.
const (
	WeeklyUsageLine    = "weekly-usage-line"
	WeeklyRepeatBar    = "weekly-repeat-bar"
	WeeklyRepaymentBar = "weekly-repayment-bar"
	MonthlyGSVBar      = "monthly-gsv-bar"
	MonthlyInvoiceBar  = "monthly-invoice-bar"
	MonthlyGrowthBar   = "monthly-growth-bar"
)

// Signature is a required column set and how to chart a table that has it.
type Signature struct {
	Family        string           `json:"family"`
	Kind          models.ChartKind `json:"kind"`
	X             string           `json:"x"`
	Y             []string         `json:"y"`
	Title         string           `json:"title,omitempty"`
	XAxisTitle    string           `json:"xAxisTitle,omitempty"`
	YAxisTitle    string           `json:"yAxisTitle,omitempty"`
	ValueLabel    string           `json:"valueLabel,omitempty"`
	VariableLabel string           `json:"variableLabel,omitempty"`
}

// Required returns every column the signature needs.
func (s Signature) Required() []string {
	return append([]string{s.X}, s.Y...)
}

// Matches reports whether the table has every required column.
func (s Signature) Matches(table *models.NamedTable) bool {
	return table.HasColumns(s.Required()...)
}

func repeatBar(x string) Signature {
	return Signature{
		Family:        WeeklyRepeatBar,
		Kind:          models.ChartStackedBar,
		X:             x,
		Y:             []string{"REPEAT", "NEW"},
		Title:         "Weekly Repeat and New Counts",
		ValueLabel:    "Count",
		VariableLabel: "Type",
	}
}

func repaymentBar(x, paid, outstanding string) Signature {
	return Signature{
		Family:        WeeklyRepaymentBar,
		Kind:          models.ChartStackedBar,
		X:             x,
		Y:             []string{paid, outstanding},
		Title:         "Total, Paid, and Outstanding Balances",
		XAxisTitle:    "Week",
		YAxisTitle:    "Amount",
		ValueLabel:    "Amount",
		VariableLabel: "Balance Type",
	}
}

func monthlyBar(family, x string, y ...string) Signature {
	return Signature{
		Family:        family,
		Kind:          models.ChartStackedBar,
		X:             x,
		Y:             y,
		Title:         "GSV",
		ValueLabel:    "Count",
		VariableLabel: "Type",
	}
}

// Signatures returns the ordered signature list. The first match wins, so
// suffixed variants come before the bare ones they would otherwise shadow.
func Signatures() []Signature {
	return []Signature{
		{Family: WeeklyUsageLine, Kind: models.ChartLine, X: "WK", Y: []string{"USAGE"}, XAxisTitle: "WK"},
		repeatBar("WK.1"),
		repeatBar("WK"),
		repaymentBar("WK.2", "Paid", "Outstanding"),
		repaymentBar("WK.3", "Paid.1", "Outstanding.1"),
		repaymentBar("Week", "Paid", "Outstanding"),
		monthlyBar(MonthlyGSVBar, "Month", "GSV (PHP)", "Growth vs Baseline"),
		monthlyBar(MonthlyInvoiceBar, "Month.1", "No. of Invoices", "Growth vs Baseline.1"),
		monthlyBar(MonthlyInvoiceBar, "Month", "No. of Invoices", "Growth vs Baseline"),
		monthlyBar(MonthlyGrowthBar, "Month.2", "Grew vs. Baseline", "Did not grow vs. Baseline"),
		monthlyBar(MonthlyGrowthBar, "Month", "Grew vs. Baseline", "Did not grow vs. Baseline"),
	}
}

var suffix = regexp.MustCompile(`\.\d+$`)

// BaseName strips a ".N" duplicate suffix: "Paid.1" -> "Paid".
func BaseName(column string) string {
	return suffix.ReplaceAllString(column, "")
}
