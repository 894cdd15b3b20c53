// Package runstore persists finished search runs so they can be listed from
// the CLI or served over HTTP. Stores are selected by type name: memory,
// jsonl, jsonl_rotating (lumberjack) and sqlite.
package runstore
