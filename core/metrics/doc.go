// Package metrics defines the sinks that observe a reserve search. A sink
// records one TrialEvent per evaluated reserve size and, when it implements
// SearchRecorder, one SearchEvent per finished search. Sinks are created from
// configuration through the factory registry; NewMetricsSink returns a
// MultiSink automatically when several sinks are configured.
package metrics
