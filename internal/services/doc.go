// Package services implements the business logic layer between the HTTP
// handlers and the sales pipeline. It resolves region selections, runs the
// pipeline stages against the cached dataset, and shapes the results into
// the contract types the transport layer renders.
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//
// # Available Services
//
//	- DashboardService: selection handling, aggregation and report views
//	- DatasetWatcher: filesystem watching with cache invalidation
//
// Services return the typed errors from internal/sales unchanged so the
// transport layer can map them onto RFC 7807 problem responses.
package services
