/*
Package observability exposes Prometheus metrics for machine runs.

Metrics are fed by the engine's lifecycle hooks, so any program compiled
with WithLifecycleHooks(metrics.Hooks()) reports its runs, steps and halts.
*/
package observability
