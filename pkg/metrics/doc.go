// Package metrics exposes Prometheus instruments for access decisions,
// quota refusals, subscription lifecycle changes and HTTP traffic.
//
// All Record methods are safe on a nil *Collector, so components can take
// an optional collector without branching.
package metrics
