// Package reconcile keeps locally displayed vote state in step with the
// server. Clicks are projected onto the shared cache immediately, coalesced
// into at most one request per debounce window, and the server's answer is
// either committed verbatim or rolled back to the state before the gesture.
package reconcile
