// Package cli implements the command-line interface for docket-watch.
//
// The cli package provides the Cobra-based CLI with one subcommand per
// pipeline stage: consolidating district docket exports, searching news
// coverage for docket names, publishing hearings as an iCalendar file,
// chaining the stages in a single run, and inspecting progress. It wires
// together the config, docket, search, classify, and calendar packages.
package cli
