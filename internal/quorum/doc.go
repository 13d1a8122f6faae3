// Package quorum defines the read quorum policy and the pure arithmetic
// mapping a policy to the number of agreeing responses required.
// Every consumer computes thresholds through ExpectedAnswers so the
// accumulation and timeout-salvage paths can never disagree.
package quorum
