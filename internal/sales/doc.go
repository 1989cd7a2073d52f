// Package sales implements the dashboard's computation core: loading a
// sales dataset into an immutable table, filtering it by region, grouping
// it by seller with decimal-safe sums, and shaping the filtered and
// aggregated data into display-ready reports.
//
// Data flows one direction — Loader → Filter → Aggregate → report
// builders — and every stage returns a fresh value or a typed failure.
// Nothing here knows about HTTP, charts libraries, or any other
// presentation concern, so the whole pipeline is testable without a UI
// harness.
package sales
