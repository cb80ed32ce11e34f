// Package salary aggregates ledger entries per salesperson and derives commission.
package salary

import (
	"math"
	"sort"
	"strings"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
)

// UnspecifiedSalesPerson groups entries without a salesperson.
const UnspecifiedSalesPerson = "(unspecified)"

// PersonSummary per-salesperson totals.
type PersonSummary struct {
	SalesPerson  string  `json:"sales_person"`
	Count        int     `json:"count"`
	TotalMargin  float64 `json:"total_margin"`
	TotalSupport float64 `json:"total_support"`
}

// Line is a summary with its computed commission.
type Line struct {
	PersonSummary
	Salary int64 `json:"calculated_salary"`
}

// Summarize groups entries by trimmed salesperson, ordered by count descending.
// Ties keep the order in which each salesperson first appears.
func Summarize(entries []model.ReportEntry) []PersonSummary {
	index := make(map[string]int)
	summaries := make([]PersonSummary, 0)

	for _, e := range entries {
		key := strings.TrimSpace(e.SalesPerson)
		if key == "" {
			key = UnspecifiedSalesPerson
		}
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, PersonSummary{SalesPerson: key})
		}
		summaries[i].Count++
		summaries[i].TotalMargin += e.Margin
		summaries[i].TotalSupport += e.SupportAmount
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Count > summaries[j].Count
	})
	return summaries
}

// Calculate returns count*perSaleIncentive + round(totalMargin*marginFraction).
// marginFraction is a ratio (0.1 for 10%); the margin term rounds half away from zero.
func Calculate(s PersonSummary, perSaleIncentive int64, marginFraction float64) int64 {
	base := int64(s.Count) * perSaleIncentive
	bonus := s.TotalMargin * marginFraction
	if math.IsNaN(bonus) || math.IsInf(bonus, 0) {
		bonus = 0
	}
	return base + int64(math.Round(bonus))
}

// Table summarizes entries and computes every salary line.
func Table(entries []model.ReportEntry, perSaleIncentive int64, marginFraction float64) []Line {
	summaries := Summarize(entries)
	lines := make([]Line, len(summaries))
	for i, s := range summaries {
		lines[i] = Line{PersonSummary: s, Salary: Calculate(s, perSaleIncentive, marginFraction)}
	}
	return lines
}
