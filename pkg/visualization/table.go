package visualization

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/tensio-x/tensio/pkg/dataset"
	"github.com/tensio-x/tensio/pkg/decision"
	"github.com/tensio-x/tensio/pkg/distfit"
	"github.com/tensio-x/tensio/pkg/voi"
)

// DrawTable renders the table to stdout.
func DrawTable(table *Table) {
	FprintTable(os.Stdout, table)
}

// FprintTable renders the table to the given writer.
func FprintTable(w io.Writer, table *Table) {
	output := tablewriter.NewWriter(w)
	output.SetHeader(table.Headers)
	for _, row := range table.Rows {
		output.Append(row)
	}
	output.Render()
}

// MeasurementsTable is the raw data table.
func MeasurementsTable(records []dataset.Record) *Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{fmt.Sprintf("%d", r.ID), fmt.Sprintf("%.1f", r.YieldMPa)}
	}
	return NewTable([]string{"id", "yield [MPa]"}, rows)
}

// FitTable is the decision-inputs parameter table: MLE point estimates
// with their bootstrap intervals.
func FitTable(params distfit.Params, intervals map[string]distfit.Interval) *Table {
	rows := [][]string{
		fitRow("mean", params.Mean, intervals),
		fitRow("std", params.Std, intervals),
	}
	return NewTable([]string{"parameter", "MLE", "CI low", "CI high"}, rows)
}

func fitRow(name string, estimate float64, intervals map[string]distfit.Interval) []string {
	ci, ok := intervals[name]
	if !ok {
		return []string{name, fmt.Sprintf("%.2f", estimate), "-", "-"}
	}
	return []string{
		name,
		fmt.Sprintf("%.2f", estimate),
		fmt.Sprintf("%.2f", ci.Low),
		fmt.Sprintf("%.2f", ci.High),
	}
}

// DecisionTable lists every action's failure probability and expected
// cost, cheapest first.
func DecisionTable(result decision.Result) *Table {
	rows := [][]string{}
	for _, outcome := range result.Sorted() {
		rows = append(rows, []string{
			string(outcome.Action),
			fmt.Sprintf("%.4f", outcome.PFail),
			fmt.Sprintf("%.0f", outcome.ExpectedCost),
		})
	}
	return NewTable([]string{"action", "p(fail)", "expected cost"}, rows)
}

// SweepTable lists the value-of-information sweep, one row per candidate
// measurement precision.
func SweepTable(points []voi.SweepPoint) *Table {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			fmt.Sprintf("%.0f", p.Noise),
			fmt.Sprintf("%.0f", p.MeanCost),
			fmt.Sprintf("%.1f", p.StdErr),
			fmt.Sprintf("%.0f", p.Value),
		}
	}
	return NewTable([]string{"noise std [MPa]", "mean cost", "MC std err", "value of testing"}, rows)
}
