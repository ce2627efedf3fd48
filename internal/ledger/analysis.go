package ledger

import (
	"sort"

	"newstrack/internal/logger"
	"newstrack/internal/models"
)

// AnalysisLedger is the growing audit log of analyzed articles, persisted
// as one JSON array, newest batch first. Each cycle rewrites the whole
// file; volumes are small enough that this stays cheap.
type AnalysisLedger struct {
	path string
}

func NewAnalysisLedger(path string) *AnalysisLedger {
	return &AnalysisLedger{path: path}
}

// Load returns all persisted records. Corrupt or missing state is treated
// as an empty history. No re-sort happens here: the file order is the
// prepend order, and callers sort for display as needed.
func (a *AnalysisLedger) Load() []models.AnalysisRecord {
	var records []models.AnalysisRecord
	if err := readJSON(a.path, &records); err != nil {
		logger.Log.Debugf("analysis: starting fresh: %v", err)
		return []models.AnalysisRecord{}
	}
	return records
}

// Save overwrites the ledger with the given records.
func (a *AnalysisLedger) Save(records []models.AnalysisRecord) error {
	return writeJSONAtomic(a.path, records)
}

// AppendBatch places the new records before the existing ones and persists
// the combined list. Records with an empty analysis are kept too: failed
// and no-impact articles stay on file for audit.
func (a *AnalysisLedger) AppendBatch(newRecords []models.AnalysisRecord) error {
	if len(newRecords) == 0 {
		return nil
	}
	combined := append(append([]models.AnalysisRecord{}, newRecords...), a.Load()...)
	return a.Save(combined)
}

// Latest returns up to n records ordered by analysis time, newest first.
func (a *AnalysisLedger) Latest(n int) []models.AnalysisRecord {
	records := a.Load()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AnalyzedAt > records[j].AnalyzedAt
	})
	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records
}
