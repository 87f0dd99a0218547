// Package provisioning provides shared types, interfaces, and orchestration for
// organization baseline provisioning.
//
// # Subpackages
//
//   - organization: create or adopt the organization, find its root, enable SCPs
//   - policy: create, reconcile and attach the guardrail policy
//   - stack: submit the IAM baseline stack and follow its events
//
// # Core Types
//
// Context carries configuration, state, cloud clients, observer, metrics and
// the sleep function used by every wait. Phase defines a provisioning step
// with Name() and Provision() methods. State accumulates results from each
// phase (organization, root, policy and stack). RunPhases executes phases in
// order and wraps the first failure in a StepError.
package provisioning
