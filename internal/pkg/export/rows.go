package export

import "strconv"

// Row is one flattened export line: one metric value of one weekly report.
type Row struct {
	FY       string
	Quarter  string
	WeekDate string
	Metric   string
	Value    float64
	Baseline float64
	Target   float64
	Unit     string
	Status   string
	Comment  string
}

// Headers is the column order shared by every output format.
var Headers = []string{
	"FY",
	"Quarter",
	"Week Date",
	"Metric Name",
	"Value",
	"Baseline",
	"Target",
	"Unit",
	"Status",
	"Comment",
}

func (r Row) fields() []string {
	return []string{
		r.FY,
		r.Quarter,
		r.WeekDate,
		r.Metric,
		formatFloat(r.Value),
		formatFloat(r.Baseline),
		formatFloat(r.Target),
		r.Unit,
		r.Status,
		r.Comment,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
