// Package poll drives asynchronous control-plane operations to a terminal state.
//
// An [Operation] pairs a start action with a polling action and a pure
// classification function. [Until] runs the start action once, then polls at
// a fixed interval until the classification reports success or failure. The
// same loop serves organization readiness, policy existence, and stack
// completion.
package poll
