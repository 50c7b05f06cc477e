package organize

// Categorization axes. Each is independently toggleable and has its own
// counters.
const (
	AxisJournal = "journal"
	AxisAuthor  = "author"
	AxisYear    = "year"
	AxisSubject = "subject"
)

// Stats accumulates run-wide counts. It is owned by the collection loop and
// never touched from worker goroutines.
type Stats struct {
	// Processed is the number of files that started processing and reached a
	// terminal state. Processed == Renamed + Problematic.
	Processed int

	// Renamed counts files successfully identified and moved.
	Renamed int

	// Problematic counts files that ended quarantined or failed.
	Problematic int

	// CategoryCounts maps axis -> category value -> number of files copied
	// under that value.
	CategoryCounts map[string]map[string]int

	// CategorizedFiles maps axis -> total files categorized on that axis.
	CategorizedFiles map[string]int
}

func newStats() Stats {
	return Stats{
		CategoryCounts:   make(map[string]map[string]int),
		CategorizedFiles: make(map[string]int),
	}
}

// record folds one file's terminal result into the totals.
func (s *Stats) record(res fileResult) {
	s.Processed++
	if res.outcome.Success() {
		s.Renamed++
	} else {
		s.Problematic++
	}

	for axis, value := range res.categories {
		byValue := s.CategoryCounts[axis]
		if byValue == nil {
			byValue = make(map[string]int)
			s.CategoryCounts[axis] = byValue
		}
		byValue[value]++
		s.CategorizedFiles[axis]++
	}
}
