// Package journal persists one record per attempted annotation unit.
//
// The journal is an audit trail, not the source of truth: resume decisions
// always come from the saved tables. It answers "what did recent runs do"
// for the status command — how many cells were filled, rejected by the
// provider, or skipped — keyed by run ID.
package journal
