package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"newstrack/internal/track"
)

type fakeBarSource struct {
	bars  []Bar
	calls int
}

func (f *fakeBarSource) DailyBars(symbol string, start, end time.Time) ([]Bar, error) {
	f.calls++
	return f.bars, nil
}

func bar(date string, open, close float64) Bar {
	return Bar{
		Date:  date,
		Open:  decimal.NewFromFloat(open),
		Close: decimal.NewFromFloat(close),
	}
}

func testUpdater(source BarSource, today string) *Updater {
	now, _ := time.Parse("2006-01-02", today)
	return &Updater{
		ashare:   source,
		fallback: source,
		sleep:    func(time.Duration) {},
		now:      func() time.Time { return now },
	}
}

func pendingRow(newsDate string) track.Row {
	base, _ := time.Parse("2006-01-02", newsDate)
	cell := func(offset int) track.PerfCell {
		return track.PerfCell{
			Kind: track.CellPendingDate,
			Raw:  base.AddDate(0, 0, offset).Format("2006-01-02"),
		}
	}
	return track.Row{
		Seq:      1,
		Stock:    "贵州茅台(600519)",
		NewsDate: newsDate,
		PerfT0:   cell(0),
		PerfT1:   cell(1),
		PerfT3:   cell(2),
	}
}

func TestUpdateFillsTradedCells(t *testing.T) {
	// 2026-03-02 is a Monday.
	source := &fakeBarSource{bars: []Bar{
		bar("2026-03-02", 100, 102),
		bar("2026-03-03", 102, 101),
		bar("2026-03-04", 101, 103.02),
	}}
	rows := []track.Row{pendingRow("2026-03-02")}

	updated := testUpdater(source, "2026-03-10").Update(rows)
	if updated != 1 {
		t.Fatalf("updated = %d", updated)
	}

	row := rows[0]
	checks := []struct {
		cell track.PerfCell
		want string
	}{
		{row.PerfT0, "2.00%"},
		{row.PerfT1, "-0.98%"},
		{row.PerfT3, "2.00%"},
	}
	for i, c := range checks {
		if c.cell.Kind != track.CellPercent || c.cell.Raw != c.want {
			t.Errorf("cell %d = %+v, want %s", i, c.cell, c.want)
		}
	}
	if row.InitialPrice != "100.00" {
		t.Errorf("initial price = %q", row.InitialPrice)
	}
}

func TestUpdateRollsOverWeekend(t *testing.T) {
	// 2026-03-06 is a Friday; the T+1 cell lands on Saturday and must
	// resolve against Monday's bar.
	source := &fakeBarSource{bars: []Bar{
		bar("2026-03-06", 50, 51),
		bar("2026-03-09", 51, 52.02),
	}}
	rows := []track.Row{pendingRow("2026-03-06")}

	testUpdater(source, "2026-03-12").Update(rows)

	if got := rows[0].PerfT1; got.Kind != track.CellPercent || got.Raw != "2.00%" {
		t.Fatalf("weekend cell = %+v, want Monday's 2.00%%", got)
	}
}

func TestUpdateLeavesFutureDatesPending(t *testing.T) {
	source := &fakeBarSource{bars: []Bar{bar("2026-03-02", 100, 101)}}
	rows := []track.Row{pendingRow("2026-03-02")}

	testUpdater(source, "2026-03-02").Update(rows)

	if !rows[0].PerfT1.Pending() || rows[0].PerfT1.Raw != "2026-03-03" {
		t.Fatalf("T+1 cell = %+v, should stay pending", rows[0].PerfT1)
	}
	if rows[0].PerfT0.Kind != track.CellPercent {
		t.Fatalf("T+0 cell = %+v, should be filled", rows[0].PerfT0)
	}
}

func TestUpdateSkipsSettledRows(t *testing.T) {
	source := &fakeBarSource{}
	row := pendingRow("2026-03-02")
	row.InitialPrice = "100.00"
	for _, c := range []*track.PerfCell{&row.PerfT0, &row.PerfT1, &row.PerfT3} {
		*c = track.PerfCell{Kind: track.CellPercent, Raw: "1.00%"}
	}

	updated := testUpdater(source, "2026-03-10").Update([]track.Row{row})
	if updated != 0 || source.calls != 0 {
		t.Fatalf("updated = %d, calls = %d; settled row should be skipped", updated, source.calls)
	}
}
