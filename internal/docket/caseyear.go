package docket

import (
	"regexp"
	"strconv"
)

// Case numbers commonly lead with a 2- or 4-digit filing year, as in
// 23-CR-1045 or 2023-CV-0012. Failing that, a plausible 4-digit year may
// appear anywhere in the string.
var (
	caseYearPrefix   = regexp.MustCompile(`^(\d{2}|\d{4})[-\s]`)
	caseYearAnywhere = regexp.MustCompile(`(19[89]\d|20[0-2]\d)`)
)

// CaseYear derives the filing year from a free-text case number. A leading
// 2-digit year is interpreted as 20XX, a leading 4-digit year is taken
// literally, and otherwise the first 4-digit number between 1980 and 2029
// anywhere in the string wins. The second return value is false when no
// year can be determined, which is an expected outcome for malformed or
// empty case numbers, not an error.
func CaseYear(caseNumber string) (int, bool) {
	if caseNumber == "" {
		return 0, false
	}

	if m := caseYearPrefix.FindStringSubmatch(caseNumber); m != nil {
		digits := m[1]
		if len(digits) == 2 {
			digits = "20" + digits
		}
		year, err := strconv.Atoi(digits)
		if err == nil {
			return year, true
		}
	}

	if m := caseYearAnywhere.FindStringSubmatch(caseNumber); m != nil {
		year, err := strconv.Atoi(m[1])
		if err == nil {
			return year, true
		}
	}

	return 0, false
}
