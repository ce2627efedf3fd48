package market

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// YahooClient covers symbols the A-share kline API cannot serve,
// typically HK and US listings mentioned in macro news.
type YahooClient struct{}

func NewYahooClient() *YahooClient {
	return &YahooClient{}
}

// DailyBars returns daily bars in [start, end] from the chart API.
func (c *YahooClient) DailyBars(symbol string, start, end time.Time) ([]Bar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var bars []Bar
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, Bar{
			Date:  time.Unix(int64(bar.Timestamp), 0).Format("2006-01-02"),
			Open:  bar.Open,
			Close: bar.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("market: chart data for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("market: empty chart window for %s", symbol)
	}
	return bars, nil
}
