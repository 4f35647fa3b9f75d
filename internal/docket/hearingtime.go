package docket

import (
	"fmt"
	"strings"
	"time"
)

// Consolidated rows carry an ISO date and a 12-hour clock time.
const startLayout = "2006-01-02 3:04 PM"

// HearingStart parses the record's date and time into its start in the
// given location. Times like "0:30 PM" are an export corruption of
// "12:30 PM" and are corrected before parsing.
func (r Record) HearingStart(loc *time.Location) (time.Time, error) {
	tod := strings.TrimSpace(r.Time)
	if strings.HasPrefix(tod, "0:") {
		tod = "12:" + tod[2:]
	}

	start, err := time.ParseInLocation(startLayout, strings.TrimSpace(r.Date)+" "+tod, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing hearing start: %w", err)
	}
	return start, nil
}
