/*
Package observability turns decision events into Prometheus metrics.

Metrics.Hooks returns domain.Hooks that can be passed to the runtime decider
or the metasim facade; every resolved action then increments the decision
counters and records how many transitions were eligible.
*/
package observability
