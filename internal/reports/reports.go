// Package reports computes dashboard statistics from loaded collections.
// Every function is a single pass over its input and never fails on empty input.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vena/internal/models"
)

const UnknownCity = "Unknown"

type MonthBucket struct {
	Month time.Month `json:"month"`
	Count int        `json:"count"`
	Value float64    `json:"value"`
}

type PackageStat struct {
	PackageName string  `json:"package_name"`
	Count       int     `json:"count"`
	Value       float64 `json:"value"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type CashFlow struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type Dashboard struct {
	Year               int                       `json:"year"`
	BookingsByMonth    []MonthBucket             `json:"bookings_by_month"`
	PackagePopularity  []PackageStat             `json:"package_popularity"`
	MostPopularPackage *PackageStat              `json:"most_popular_package,omitempty"`
	LeadsBySource      []GroupCount              `json:"leads_by_source"`
	LeadsByCity        []GroupCount              `json:"leads_by_city"`
	LeadStatusCounts   map[models.LeadStatus]int `json:"lead_status_counts"`
	ConversionRate     float64                   `json:"conversion_rate"`
	TotalReceivable    float64                   `json:"total_receivable"`
	CashFlow           CashFlow                  `json:"cash_flow"`
}

// BookingsByMonth buckets the projects created in year by calendar month.
// The result always has 12 entries, January first.
func BookingsByMonth(projects []*models.Project, year int) []MonthBucket {
	var counts [12]int
	var values [12]decimal.Decimal
	for _, p := range projects {
		if p == nil || p.CreatedAt.Year() != year {
			continue
		}
		i := int(p.CreatedAt.Month()) - 1
		counts[i]++
		values[i] = values[i].Add(decimal.NewFromFloat(p.TotalCost))
	}
	res := make([]MonthBucket, 12)
	for i := range res {
		res[i] = MonthBucket{Month: time.Month(i + 1), Count: counts[i], Value: values[i].InexactFloat64()}
	}
	return res
}

// PackagePopularity groups projects by package name, most booked first.
// Ties are ordered by name.
func PackagePopularity(projects []*models.Project) []PackageStat {
	type acc struct {
		count int
		value decimal.Decimal
	}
	groups := map[string]*acc{}
	for _, p := range projects {
		if p == nil {
			continue
		}
		a, ok := groups[p.PackageName]
		if !ok {
			a = &acc{}
			groups[p.PackageName] = a
		}
		a.count++
		a.value = a.value.Add(decimal.NewFromFloat(p.TotalCost))
	}
	res := make([]PackageStat, 0, len(groups))
	for name, a := range groups {
		res = append(res, PackageStat{PackageName: name, Count: a.count, Value: a.value.InexactFloat64()})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].PackageName < res[j].PackageName
	})
	return res
}

func MostPopularPackage(projects []*models.Project) *PackageStat {
	stats := PackagePopularity(projects)
	if len(stats) == 0 {
		return nil
	}
	return &stats[0]
}

func LeadsBySource(leads []*models.Lead) []GroupCount {
	return countBy(leads, func(l *models.Lead) string { return string(l.ContactChannel) })
}

// LeadsByCity treats the first comma separated segment of the location as the city.
func LeadsByCity(leads []*models.Lead) []GroupCount {
	return countBy(leads, func(l *models.Lead) string { return City(l.Location) })
}

func City(location string) string {
	city, _, _ := strings.Cut(location, ",")
	city = strings.TrimSpace(city)
	if city == "" {
		return UnknownCity
	}
	return city
}

func countBy(leads []*models.Lead, key func(*models.Lead) string) []GroupCount {
	counts := map[string]int{}
	for _, l := range leads {
		if l == nil {
			continue
		}
		counts[key(l)]++
	}
	res := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		res = append(res, GroupCount{Key: k, Count: n})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	return res
}

// TotalReceivable sums, per client, what is still owed on their projects.
// Overpaid clients contribute nothing.
func TotalReceivable(clients []*models.Client, projects []*models.Project) float64 {
	owed := make(map[string]decimal.Decimal, len(clients))
	for _, c := range clients {
		if c != nil {
			owed[c.ID] = decimal.Zero
		}
	}
	for _, p := range projects {
		if p == nil {
			continue
		}
		bal, ok := owed[p.ClientID]
		if !ok {
			continue
		}
		owed[p.ClientID] = bal.Add(decimal.NewFromFloat(p.TotalCost)).Sub(decimal.NewFromFloat(p.AmountPaid))
	}
	total := decimal.Zero
	for _, bal := range owed {
		if bal.IsPositive() {
			total = total.Add(bal)
		}
	}
	return total.InexactFloat64()
}

func LeadStatusCounts(leads []*models.Lead) map[models.LeadStatus]int {
	res := map[models.LeadStatus]int{
		models.LeadDiscussion: 0,
		models.LeadFollowUp:   0,
		models.LeadConverted:  0,
		models.LeadRejected:   0,
	}
	for _, l := range leads {
		if l != nil {
			res[l.Status]++
		}
	}
	return res
}

// ConversionRate is converted leads over all leads, as a percentage with 2 decimals.
func ConversionRate(leads []*models.Lead) float64 {
	var total, converted int64
	for _, l := range leads {
		if l == nil {
			continue
		}
		total++
		if l.Status == models.LeadConverted {
			converted++
		}
	}
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(converted).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).Round(2).InexactFloat64()
}

func IncomeExpense(transactions []*models.Transaction) CashFlow {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range transactions {
		if t == nil {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case models.TransactionExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return CashFlow{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Net:     income.Sub(expense).InexactFloat64(),
	}
}

// Build assembles the full dashboard for year.
func Build(year int, leads []*models.Lead, clients []*models.Client, projects []*models.Project, transactions []*models.Transaction) Dashboard {
	return Dashboard{
		Year:               year,
		BookingsByMonth:    BookingsByMonth(projects, year),
		PackagePopularity:  PackagePopularity(projects),
		MostPopularPackage: MostPopularPackage(projects),
		LeadsBySource:      LeadsBySource(leads),
		LeadsByCity:        LeadsByCity(leads),
		LeadStatusCounts:   LeadStatusCounts(leads),
		ConversionRate:     ConversionRate(leads),
		TotalReceivable:    TotalReceivable(clients, projects),
		CashFlow:           IncomeExpense(transactions),
	}
}
