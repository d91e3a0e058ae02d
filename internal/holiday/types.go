package holiday

import "time"

// DateLayout is the wire and storage format for holiday dates.
const DateLayout = "2006-01-02"

// DefaultType is stored when the provider supplies no holiday type.
const DefaultType = "General"

// Record is a single public holiday. The tuple (Name, Date, Country) is
// unique in the store; Type is overwritten on re-observation.
type Record struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

// Key returns the composite identity of the record, used for dedup.
func (r Record) Key() string {
	return r.Name + "|" + r.Date + "|" + r.Country
}

// Filter selects holidays by exact match on each non-empty field.
// An empty field is omitted from the predicate entirely.
type Filter struct {
	Date    string
	Country string
	Type    string
}

// WithDefaultDate returns the filter with Date set to now's UTC calendar
// date when no date was given.
func (f Filter) WithDefaultDate(now time.Time) Filter {
	if f.Date == "" {
		f.Date = now.UTC().Format(DateLayout)
	}
	return f
}

// QueryResult is the shaped response of a holiday query. Count always
// equals len(Holidays) after dedup.
type QueryResult struct {
	Count    int      `json:"count"`
	Holidays []Record `json:"holidays"`
}
