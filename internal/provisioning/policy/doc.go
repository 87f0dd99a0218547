// Package policy installs the guardrail service control policy and attaches
// it to the organization root.
//
// The policy name is the reconciliation key: creation may fail for any
// reason, after which the policy is looked up by exact name. Attachment
// failures are narrated but never abort the workflow.
package policy
