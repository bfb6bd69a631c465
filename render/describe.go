// Package render turns insight outcomes into presentation material: chart
// descriptions for front ends and markdown reports for the terminal.
package render

import (
	"fmt"

	"github.com/rustyeddy/stockinsight/insight"
)

// Chart is the suggested visual form of a result.
type Chart string

const (
	ChartLine    Chart = "line"
	ChartBar     Chart = "bar"
	ChartTable   Chart = "table"
	ChartHeatmap Chart = "heatmap"
)

// Description carries the fixed text that accompanies an insight.
type Description struct {
	Kind       insight.Kind `json:"kind"`
	Label      string       `json:"label"`
	Heading    string       `json:"heading"`
	Title      string       `json:"title"`
	XLabel     string       `json:"x_label"`
	YLabel     string       `json:"y_label"`
	Chart      Chart        `json:"chart"`
	Conclusion string       `json:"conclusion"`
}

var descriptions = map[insight.Kind]Description{
	insight.DailyRange: {
		Heading: "Daily Price Range (High - Low)",
		Title:   "Daily Price Range Over Time",
		XLabel:  "Date",
		YLabel:  "Price Range",
		Chart:   ChartLine,
		Conclusion: "Days with higher price ranges indicate higher volatility, which could signify trading " +
			"opportunities or market uncertainty. This information is valuable for day traders who rely on " +
			"volatility to make quick profits. However, prolonged high volatility may also suggest market " +
			"instability, warranting caution.",
	},
	insight.ClosingTrend: {
		Heading: "Stock Performance Trend (Closing Price)",
		Title:   "Stock Performance Trend (Closing Price)",
		XLabel:  "Date",
		YLabel:  "Closing Price",
		Chart:   ChartLine,
		Conclusion: "The trend of closing prices provides insights into the overall market sentiment and stock " +
			"performance during the selected year. A consistent uptrend could signal investor confidence, while " +
			"frequent fluctuations may indicate uncertain market conditions. Observing these trends helps " +
			"investors decide the optimal time to enter or exit positions.",
	},
	insight.Volume: {
		Heading: "Trading Volume Over Time",
		Title:   "Trading Volume Over Time",
		XLabel:  "Date",
		YLabel:  "Volume",
		Chart:   ChartBar,
		Conclusion: "Spikes in trading volume often coincide with significant market events, such as " +
			"announcements or news related to the stock. High volume suggests increased investor interest, " +
			"which can lead to either rapid price appreciation or depreciation depending on the sentiment. " +
			"Monitoring volume trends is crucial for identifying potential breakout opportunities.",
	},
	insight.TopN: {
		Heading: "Top N Days by Closing Price",
		Title:   "Top N Closing Prices",
		XLabel:  "Date",
		YLabel:  "Closing Price",
		Chart:   ChartTable,
		Conclusion: "The top-performing days indicate peak market performance, which may be linked to positive " +
			"news or market sentiment. Such days highlight periods of high investor confidence and can serve as " +
			"reference points for future technical analysis or trend identification.",
	},
	insight.Correlation: {
		Heading: "Correlation Between High, Low, and Volume",
		Title:   "Correlation Heatmap",
		Chart:   ChartHeatmap,
		Conclusion: "Strong correlations indicate the interdependence between price and volume metrics, helping " +
			"investors understand market behavior. For example, a high correlation between volume and price " +
			"changes could suggest that significant trading activity influences market movements. Such insights " +
			"assist traders in aligning their strategies with market dynamics.",
	},
}

const (
	topNHeading = "Top %d Days by Closing Price in %d"
	topNTitle   = "Top %d Closing Prices"
)

// Describe returns the generic description of k. Use For to get the text
// for a concrete selection. An invalid kind yields a Description with
// only Kind set.
func Describe(k insight.Kind) Description {
	d := descriptions[k]
	d.Kind = k
	d.Label = k.Label()
	return d
}

// For returns the description of sel.Kind with the selection's year and
// row count filled in.
func For(sel insight.Selection) Description {
	d := Describe(sel.Kind)
	if sel.Kind == insight.TopN {
		n := sel.N
		if n <= 0 {
			n = insight.DefaultTopN
		}
		d.Heading = fmt.Sprintf(topNHeading, n, sel.Year)
		d.Title = fmt.Sprintf(topNTitle, n)
	}
	return d
}
