package market

import (
	"time"

	"github.com/shopspring/decimal"

	"newstrack/internal/logger"
	"newstrack/internal/track"
)

const (
	windowBefore = 1
	windowAfter  = 10
	// 最多顺延到下一个交易日的天数，覆盖长假。
	maxForwardDays = 10

	rowPause = 500 * time.Millisecond
)

// BarSource yields daily candles for a symbol within a date range.
type BarSource interface {
	DailyBars(symbol string, start, end time.Time) ([]Bar, error)
}

// Updater fills pending performance cells in the tracking table once
// the market has traded through the dates they wait for.
type Updater struct {
	ashare   BarSource
	fallback BarSource
	sleep    func(time.Duration)
	now      func() time.Time
}

func NewUpdater() *Updater {
	return &Updater{
		ashare:   NewEastmoneyClient(),
		fallback: NewYahooClient(),
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Update resolves every pending cell it can and reports how many rows
// changed. Rows whose dates are still in the future, or whose symbol
// has no data, are left for the next run.
func (u *Updater) Update(rows []track.Row) int {
	today := u.now().Format("2006-01-02")
	updated := 0

	for i := range rows {
		row := &rows[i]
		if !rowNeedsUpdate(*row, today) {
			continue
		}

		symbol := ExtractStockCode(row.Stock)
		if symbol == "" {
			logger.Log.WithField("stock", row.Stock).Debug("无法提取股票代码，跳过")
			continue
		}

		bars, err := u.fetchWindow(symbol, row.NewsDate)
		if err != nil {
			logger.Log.WithField("symbol", symbol).Warnf("获取行情失败: %v", err)
			continue
		}
		byDate := indexBars(bars)

		changed := false
		for _, cell := range []*track.PerfCell{&row.PerfT0, &row.PerfT1, &row.PerfT3} {
			if fillCell(cell, byDate, today) {
				changed = true
			}
		}
		if row.InitialPrice == "" {
			if bar, ok := barOnOrAfter(byDate, row.NewsDate, today); ok {
				row.InitialPrice = bar.Open.StringFixed(2)
				changed = true
			}
		}
		if changed {
			updated++
		}
		u.sleep(rowPause)
	}
	return updated
}

func rowNeedsUpdate(row track.Row, today string) bool {
	for _, cell := range []track.PerfCell{row.PerfT0, row.PerfT1, row.PerfT3} {
		if cell.Pending() && cell.Raw <= today {
			return true
		}
	}
	return row.InitialPrice == "" && row.NewsDate <= today
}

func (u *Updater) fetchWindow(symbol, newsDate string) ([]Bar, error) {
	base, err := time.Parse("2006-01-02", newsDate)
	if err != nil {
		base = u.now()
	}
	start := base.AddDate(0, 0, -windowBefore)
	end := base.AddDate(0, 0, windowAfter)

	source := u.fallback
	if IsAShare(symbol) {
		source = u.ashare
	}
	return source.DailyBars(symbol, start, end)
}

func indexBars(bars []Bar) map[string]Bar {
	byDate := make(map[string]Bar, len(bars))
	for _, b := range bars {
		byDate[b.Date] = b
	}
	return byDate
}

// fillCell computes the day's performance once the pending date has
// traded. Future dates stay pending.
func fillCell(cell *track.PerfCell, byDate map[string]Bar, today string) bool {
	if !cell.Pending() || cell.Raw > today {
		return false
	}
	bar, ok := barOnOrAfter(byDate, cell.Raw, today)
	if !ok {
		return false
	}
	*cell = track.PerfCell{Kind: track.CellPercent, Raw: performance(bar)}
	return true
}

// barOnOrAfter finds the bar for the given date, rolling forward to
// the next trading day across weekends and holidays.
func barOnOrAfter(byDate map[string]Bar, date, today string) (Bar, bool) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Bar{}, false
	}
	for i := 0; i <= maxForwardDays; i++ {
		key := day.AddDate(0, 0, i).Format("2006-01-02")
		if key > today {
			break
		}
		if bar, ok := byDate[key]; ok {
			return bar, true
		}
	}
	return Bar{}, false
}

// performance is the open-to-close move of one bar as a percentage.
func performance(bar Bar) string {
	if bar.Open.IsZero() {
		return "0.00%"
	}
	pct := bar.Close.Sub(bar.Open).Div(bar.Open).Mul(decimal.NewFromInt(100))
	return pct.StringFixed(2) + "%"
}
