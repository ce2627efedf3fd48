package track

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"newstrack/internal/logger"
	"newstrack/internal/models"
)

// Column layout of the tracking spreadsheet.
const (
	colSeq = iota
	colSummary
	colLink
	colStock
	colImpact
	colInitialPrice
	colPerfT0
	colPerfT1
	colPerfT3
	colNewsDate
	colCount
)

var header = []string{
	"序号", "新闻总结", "新闻链接", "股票", "利空/利好",
	"初始价格", "当日表现", "次日表现", "三日表现", "新闻日期",
}

// Row is one tracked stock mention.
type Row struct {
	Seq          int
	Summary      string
	Link         string
	Stock        string
	Impact       string
	InitialPrice string
	PerfT0       PerfCell
	PerfT1       PerfCell
	PerfT3       PerfCell
	NewsDate     string
}

func (r Row) record() []string {
	rec := make([]string, colCount)
	rec[colSeq] = strconv.Itoa(r.Seq)
	rec[colSummary] = r.Summary
	rec[colLink] = r.Link
	rec[colStock] = r.Stock
	rec[colImpact] = r.Impact
	rec[colInitialPrice] = r.InitialPrice
	rec[colPerfT0] = r.PerfT0.String()
	rec[colPerfT1] = r.PerfT1.String()
	rec[colPerfT3] = r.PerfT3.String()
	rec[colNewsDate] = r.NewsDate
	return rec
}

func rowFromRecord(rec []string) (Row, error) {
	if len(rec) < colCount {
		return Row{}, fmt.Errorf("track: short record, %d columns", len(rec))
	}
	seq, err := strconv.Atoi(rec[colSeq])
	if err != nil {
		return Row{}, fmt.Errorf("track: bad sequence %q: %w", rec[colSeq], err)
	}
	return Row{
		Seq:          seq,
		Summary:      rec[colSummary],
		Link:         rec[colLink],
		Stock:        rec[colStock],
		Impact:       rec[colImpact],
		InitialPrice: rec[colInitialPrice],
		PerfT0:       ParsePerfCell(rec[colPerfT0]),
		PerfT1:       ParsePerfCell(rec[colPerfT1]),
		PerfT3:       ParsePerfCell(rec[colPerfT3]),
		NewsDate:     rec[colNewsDate],
	}, nil
}

// Table is the CSV-backed tracking spreadsheet.
type Table struct {
	path string
}

func NewTable(path string) *Table {
	return &Table{path: path}
}

// Load reads every row; a missing file yields an empty table.
func (t *Table) Load() ([]Row, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("track: open %s: %w", t.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("track: read %s: %w", t.path, err)
	}

	var rows []Row
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[colSeq] == header[colSeq] {
			continue
		}
		row, err := rowFromRecord(rec)
		if err != nil {
			logger.Log.Warnf("跳过异常行 %d: %v", i+1, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save rewrites the whole file through a temp file and rename.
func (t *Table) Save(rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("track: ensure dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), "track-*.tmp")
	if err != nil {
		return fmt.Errorf("track: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("track: write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.record()); err != nil {
			tmp.Close()
			return fmt.Errorf("track: write row %d: %w", row.Seq, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("track: flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("track: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("track: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("track: rename: %w", err)
	}
	return nil
}

// AppendRecords adds one row per impacted stock in each analysis
// record, continuing the sequence from the highest existing number.
// Link and stock pairs already in the table are skipped, so replaying
// the whole analysis ledger is safe. The performance columns start as
// the trading dates they wait for.
func (t *Table) AppendRecords(records []models.AnalysisRecord) (int, error) {
	rows, err := t.Load()
	if err != nil {
		return 0, err
	}

	nextSeq := 1
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.Seq >= nextSeq {
			nextSeq = r.Seq + 1
		}
		seen[r.Link+"\x00"+r.Stock] = true
	}

	added := 0
	for _, rec := range records {
		if !rec.Analysis.HasImpact() {
			continue
		}
		newsDate := newsDateOf(rec)
		for _, impact := range rec.Analysis.Analysis {
			if seen[rec.News.Link+"\x00"+impact.Stock] {
				continue
			}
			seen[rec.News.Link+"\x00"+impact.Stock] = true
			rows = append(rows, Row{
				Seq:      nextSeq,
				Summary:  rec.Analysis.Summary,
				Link:     rec.News.Link,
				Stock:    impact.Stock,
				Impact:   impact.Impact,
				PerfT0:   pendingCell(newsDate, 0),
				PerfT1:   pendingCell(newsDate, 1),
				PerfT3:   pendingCell(newsDate, 2),
				NewsDate: newsDate,
			})
			nextSeq++
			added++
		}
	}

	if added == 0 {
		return 0, nil
	}
	if err := t.Save(rows); err != nil {
		return 0, err
	}
	return added, nil
}

func pendingCell(newsDate string, offsetDays int) PerfCell {
	base, err := time.Parse("2006-01-02", newsDate)
	if err != nil {
		base = time.Now()
	}
	day := base.AddDate(0, 0, offsetDays).Format("2006-01-02")
	return PerfCell{Kind: CellPendingDate, Raw: day}
}

// newsDateOf prefers the analysis timestamp, falling back to the
// publication date, and normalizes both to YYYY-MM-DD.
func newsDateOf(rec models.AnalysisRecord) string {
	for _, candidate := range []string{rec.AnalyzedAt, rec.News.PubDate} {
		for _, layout := range []string{
			"2006-01-02 15:04:05",
			time.RFC3339,
			time.RFC1123Z,
			time.RFC1123,
			"2006-01-02",
		} {
			if ts, err := time.Parse(layout, candidate); err == nil {
				return ts.Format("2006-01-02")
			}
		}
	}
	return time.Now().Format("2006-01-02")
}
