// Package search drives the incremental reserve-fleet search. Starting from
// zero reserve units it evaluates one reserve size per iteration until a
// stable perfect fleet is found. A later failure to meet the target
// invalidates any smaller minimum found so far.
package search
