package chart

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"choonbot/internal/market"
)

const (
	colorBackground = "#0b1220"
	colorText       = "#e5e7eb"
	colorTextDim    = "#9ca3af"
	colorBull       = "#34d399"
	colorBear       = "#f87171"
	colorBBMid      = "#fbbf24"
	colorBBBand     = "#3b82f6"
)

func renderHTML(pair string, rows []market.FeatureRow) ([]byte, error) {
	xAxis := make([]string, 0, len(rows))
	klineData := make([]opts.KlineData, 0, len(rows))
	bbHigh := make([]opts.LineData, 0, len(rows))
	bbMid := make([]opts.LineData, 0, len(rows))
	bbLow := make([]opts.LineData, 0, len(rows))
	for _, r := range rows {
		xAxis = append(xAxis, r.Timestamp.Format("01-02 15:04"))
		klineData = append(klineData, opts.KlineData{Value: [4]float64{r.Open, r.Close, r.Low, r.High}})
		bbHigh = append(bbHigh, opts.LineData{Value: r.BollingerHigh})
		bbMid = append(bbMid, opts.LineData{Value: r.BollingerMid})
		bbLow = append(bbLow, opts.LineData{Value: r.BollingerLow})
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", chartHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s daily", pair),
			TitleStyle: &opts.TextStyle{Color: colorText, FontSize: 18},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorText}}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Color: colorTextDim}}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextDim},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextDim, Opacity: opts.Float(0.2)}},
		}),
	)
	kline.SetXAxis(xAxis)
	kline.AddSeries("Price", klineData, charts.WithItemStyleOpts(opts.ItemStyle{
		Color:        colorBull,
		Color0:       colorBear,
		BorderColor:  colorBull,
		BorderColor0: colorBear,
	}))

	bands := charts.NewLine()
	bands.SetXAxis(xAxis)
	noSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	bands.AddSeries("BB Upper", bbHigh, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorBBBand, Width: 1}))
	bands.AddSeries("BB Mid", bbMid, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorBBMid, Width: 2}))
	bands.AddSeries("BB Lower", bbLow, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorBBBand, Width: 1}))
	kline.Overlap(bands)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(kline)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
