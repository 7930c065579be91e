package dataset

// KpiReport is the result of the KPI aggregation over one physical table.
// TotalQty / TotalRevenue stay nil when the backing role did not resolve.
type KpiReport struct {
	Table        string
	Exists       bool
	RowCount     int64
	HasQty       bool
	HasPrice     bool
	TotalQty     *float64
	TotalRevenue *float64
	Columns      []string
}

// SeriesPoint is one day of the daily series, ascending by date.
type SeriesPoint struct {
	Date  string // ISO-8601 calendar date
	Value float64
}

// DailySeries groups rows by the resolved date column. Metric is "revenue"
// when both quantity and price resolved, otherwise "ct" (plain row count).
type DailySeries struct {
	Table   string
	HasDate bool
	Metric  string
	Points  []SeriesPoint
}

// ProductStat is one product bucket of the top-N breakdown. Qty holds
// sum(qty) when the quantity role resolved, else the row count; NULL
// aggregates are reported as 0.
type ProductStat struct {
	Product string
	Qty     float64
}

type TopProducts struct {
	Table      string
	HasProduct bool
	Items      []ProductStat
}

// Overview is the cheap existence/shape probe for the dashboard.
type Overview struct {
	Table   string
	Exists  bool
	Rows    int64
	Columns []string
}
