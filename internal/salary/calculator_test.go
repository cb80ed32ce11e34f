package salary

import (
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	entries := []model.ReportEntry{
		{SalesPerson: "A", Margin: 100, SupportAmount: 10},
		{SalesPerson: "A", Margin: 50, SupportAmount: 0},
		{SalesPerson: "B", Margin: 0},
	}

	got := Summarize(entries)

	require.Len(t, got, 2)
	assert.Equal(t, PersonSummary{SalesPerson: "A", Count: 2, TotalMargin: 150, TotalSupport: 10}, got[0])
	assert.Equal(t, PersonSummary{SalesPerson: "B", Count: 1}, got[1])
}

func TestSummarize_GroupingAndOrder(t *testing.T) {
	entries := []model.ReportEntry{
		{SalesPerson: "C"},
		{SalesPerson: " B "},
		{SalesPerson: ""},
		{SalesPerson: "B"},
		{SalesPerson: "   "},
		{SalesPerson: "D"},
	}

	got := Summarize(entries)

	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.SalesPerson
	}
	// 동률(1건)은 처음 등장한 순서를 유지
	assert.Equal(t, []string{"B", UnspecifiedSalesPerson, "C", "D"}, names)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 2, got[1].Count)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		summary  PersonSummary
		perSale  int64
		fraction float64
		expected int64
	}{
		{"incentive plus margin share", PersonSummary{Count: 3, TotalMargin: 1000}, 30000, 0.1, 90100},
		{"default incentive no margin share", PersonSummary{Count: 2, TotalMargin: 500000}, model.DefaultPerSaleIncentive, 0, 60000},
		{"half rounds up", PersonSummary{Count: 0, TotalMargin: 5}, 0, 0.1, 1},
		{"below half rounds down", PersonSummary{Count: 0, TotalMargin: 4}, 0, 0.1, 0},
		{"negative margin", PersonSummary{Count: 1, TotalMargin: -1000}, 30000, 0.1, 29900},
		{"no sales", PersonSummary{}, 30000, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Calculate(tt.summary, tt.perSale, tt.fraction))
		})
	}
}

func TestTable(t *testing.T) {
	entries := []model.ReportEntry{
		{SalesPerson: "A", Margin: 1000},
		{SalesPerson: "A", Margin: 1000},
		{SalesPerson: "B", Margin: 3000},
	}

	lines := Table(entries, 10000, 0.5)

	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].SalesPerson)
	assert.Equal(t, int64(21000), lines[0].Salary)
	assert.Equal(t, int64(11500), lines[1].Salary)
}
