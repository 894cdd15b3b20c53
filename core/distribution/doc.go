// Package distribution provides the stochastic primitives of the fleet
// model: discrete Weibull durations for repair and maintenance, the
// continuous Weibull hazard used as a daily failure probability, and static
// discrete tables for the maintenance admission policy. Everything here is
// stateless; randomness comes from the caller's generator.
package distribution
