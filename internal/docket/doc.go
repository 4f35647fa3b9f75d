// Package docket provides types and functions for court docket records.
//
// The docket package handles parsing raw per-district CSV exports, merging
// them into one consolidated table with duplicate hearings collapsed and
// unwanted hearing types excluded, and deriving a case filing year from
// free-text case numbers. It also parses a record's date and time into a
// concrete hearing start for calendar publication.
package docket
