package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/gridfeed/core/model"
)

// PriceChartHTML renders prices as a line chart in a standalone HTML page.
func PriceChartHTML(title string, recs []model.PriceRecord) (string, error) {
	if len(recs) == 0 {
		return "", fmt.Errorf("no prices to chart")
	}
	sorted := make([]model.PriceRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Datetime.Before(sorted[j].Datetime) })

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date & Time (UTC)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("Price (%s/MWh)", sorted[0].Currency)}),
	)

	var xAxis []string
	var yAxis []opts.LineData
	for _, r := range sorted {
		xAxis = append(xAxis, r.Datetime.UTC().Format("2006-01-02 15:04"))
		yAxis = append(yAxis, opts.LineData{Value: r.Price})
	}
	line.SetXAxis(xAxis).AddSeries(string(sorted[0].ZoneKey), yAxis)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %v", err)
	}
	return buf.String(), nil
}
