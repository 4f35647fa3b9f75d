package docket

// Record represents one hearing row from a court docket export.
type Record struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Name        string `json:"name"`
	CaseNumber  string `json:"case_number"`
	HearingType string `json:"hearing_type"`
	Location    string `json:"location"`
	SourceFile  string `json:"source_file,omitempty"` // which district export the row came from
}

// Key identifies the hearing a record describes. Raw rows sharing a key
// describe the same hearing and collapse into one consolidated record.
type Key struct {
	Date        string
	Time        string
	Name        string
	Location    string
	HearingType string
}

// Key returns the record's hearing identity.
func (r Record) Key() Key {
	return Key{
		Date:        r.Date,
		Time:        r.Time,
		Name:        r.Name,
		Location:    r.Location,
		HearingType: r.HearingType,
	}
}

// less orders keys the way the consolidated table is sorted.
func (k Key) less(other Key) bool {
	if k.Date != other.Date {
		return k.Date < other.Date
	}
	if k.Time != other.Time {
		return k.Time < other.Time
	}
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	if k.Location != other.Location {
		return k.Location < other.Location
	}
	return k.HearingType < other.HearingType
}
