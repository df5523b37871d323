package core

import "github.com/shopspring/decimal"

// Outcome classifies a month or year result.
type Outcome string

const (
	Surplus   Outcome = "surplus"
	Shortfall Outcome = "shortfall"
)

// OutcomeOf classifies net; zero counts as surplus.
func OutcomeOf(net float64) Outcome {
	if net >= 0 {
		return Surplus
	}
	return Shortfall
}

// CardLabel is the short label shown on dashboard month cards.
func (o Outcome) CardLabel() string {
	if o == Surplus {
		return "Sobra"
	}
	return "Falta"
}

// BannerLabel is the headline shown on the month detail.
func (o Outcome) BannerLabel() string {
	if o == Surplus {
		return "VAI SOBRAR"
	}
	return "VAI FALTAR"
}

// PerformanceLabel is the headline shown on the yearly report.
func (o Outcome) PerformanceLabel() string {
	if o == Surplus {
		return "Superavit"
	}
	return "Deficit"
}

// MonthSummary holds every derived total for one month. It is computed on
// read and never stored.
type MonthSummary struct {
	MonthID      int     `json:"monthId"`
	Name         string  `json:"name"`
	BillsTotal   float64 `json:"billsTotal"`
	PaidTotal    float64 `json:"paidTotal"`
	PendingTotal float64 `json:"pendingTotal"`
	IncomeTotal  float64 `json:"incomeTotal"`
	Net          float64 `json:"net"`
	Outcome      Outcome `json:"outcome"`
}

// YearAggregate is the yearly report line.
type YearAggregate struct {
	Year          int     `json:"year"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Net           float64 `json:"net"`
	AvgMonthlyNet float64 `json:"avgMonthlyNet"`
	ActiveMonths  int     `json:"activeMonths"`
}

// Proportion is the split of the report bar, as fractions in [0, 1].
type Proportion struct {
	ExpenseShare float64 `json:"expenseShare"`
	IncomeShare  float64 `json:"incomeShare"`
}

func sumBills(bills []Bill, keep func(Bill) bool) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if keep(b) {
			total = total.Add(decimal.NewFromFloat(b.Value))
		}
	}
	return total
}

func billsTotal(m MonthData) decimal.Decimal {
	return sumBills(m.Bills, func(Bill) bool { return true })
}

func paidTotal(m MonthData) decimal.Decimal {
	return sumBills(m.Bills, func(b Bill) bool { return b.Paid })
}

func incomeTotal(m MonthData) decimal.Decimal {
	return decimal.NewFromFloat(m.Income.Samuel).
		Add(decimal.NewFromFloat(m.Income.Sammia)).
		Add(decimal.NewFromFloat(m.Income.Others))
}

// MonthBillsTotal sums every bill value.
func MonthBillsTotal(m MonthData) float64 {
	return billsTotal(m).InexactFloat64()
}

// MonthPaidTotal sums the values of paid bills.
func MonthPaidTotal(m MonthData) float64 {
	return paidTotal(m).InexactFloat64()
}

// MonthPendingTotal is bills total minus paid total.
func MonthPendingTotal(m MonthData) float64 {
	return billsTotal(m).Sub(paidTotal(m)).InexactFloat64()
}

// MonthIncomeTotal sums the three income sources.
func MonthIncomeTotal(m MonthData) float64 {
	return incomeTotal(m).InexactFloat64()
}

// MonthNet is income total minus bills total.
func MonthNet(m MonthData) float64 {
	return incomeTotal(m).Sub(billsTotal(m)).InexactFloat64()
}

// SummarizeMonth computes all month totals at once.
func SummarizeMonth(m MonthData) MonthSummary {
	bills := billsTotal(m)
	paid := paidTotal(m)
	income := incomeTotal(m)
	net := income.Sub(bills).InexactFloat64()
	return MonthSummary{
		MonthID:      m.ID,
		Name:         m.Name,
		BillsTotal:   bills.InexactFloat64(),
		PaidTotal:    paid.InexactFloat64(),
		PendingTotal: bills.Sub(paid).InexactFloat64(),
		IncomeTotal:  income.InexactFloat64(),
		Net:          net,
		Outcome:      OutcomeOf(net),
	}
}

// AggregateYear sums income and expenses over the months that have any
// activity. Months with zero income and zero bills contribute nothing and
// are left out of the average's divisor.
func AggregateYear(y YearData) YearAggregate {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	active := 0
	for _, m := range y.Months {
		income := incomeTotal(m)
		expenses := billsTotal(m)
		if income.IsPositive() || expenses.IsPositive() {
			totalIncome = totalIncome.Add(income)
			totalExpenses = totalExpenses.Add(expenses)
			active++
		}
	}

	net := totalIncome.Sub(totalExpenses)
	agg := YearAggregate{
		Year:          y.Year,
		TotalIncome:   totalIncome.InexactFloat64(),
		TotalExpenses: totalExpenses.InexactFloat64(),
		Net:           net.InexactFloat64(),
		ActiveMonths:  active,
	}
	if active > 0 {
		agg.AvgMonthlyNet = net.Div(decimal.NewFromInt(int64(active))).InexactFloat64()
	}
	return agg
}

// ReportBar splits the report bar between expenses and income. Both shares
// are 0 when both totals are 0.
func ReportBar(totalIncome, totalExpenses float64) Proportion {
	income := decimal.NewFromFloat(totalIncome)
	expenses := decimal.NewFromFloat(totalExpenses)
	sum := income.Add(expenses)
	if sum.IsZero() {
		return Proportion{}
	}
	return Proportion{
		ExpenseShare: expenses.Div(sum).InexactFloat64(),
		IncomeShare:  income.Div(sum).InexactFloat64(),
	}
}
