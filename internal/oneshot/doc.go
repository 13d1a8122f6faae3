// Package oneshot provides a single-use result channel. A sender may
// fulfill it at most once; a receiver that is no longer interested can
// close its side, after which sends fail instead of being silently lost.
package oneshot
