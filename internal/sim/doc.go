// Package sim provides an in-process simulation of a holder
// neighborhood implementing the lookup client contract. It replays
// scripted record copies as progress events, honors early-stop
// requests, and can script terminal failures, so the engine and node
// can be exercised end to end without a network.
package sim
