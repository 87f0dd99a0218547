// Package orchestration provides high-level workflow coordination for
// bootstrapping an AWS Organizations management account.
//
// This package orchestrates the workflow by delegating to the provisioners in
// the internal/provisioning subpackages. It defines the execution order and
// coordinates state flow between phases.
//
// # Workflow
//
// The Workflow executes the following phases in order:
//  1. Preflight - Template and policy size checks, caller identity
//  2. Organization - Create or adopt the organization, enable SCPs on the root
//  3. Policy - Create or find the guardrail policy and attach it to the root
//  4. Stack - Deploy the baseline stack and wait for it to finish
//
// # Usage
//
//	workflow := orchestration.NewWorkflow(client, client, cfg, orchestration.WithIdentity(client))
//	result, err := workflow.Run(ctx)
//
// Every phase tolerates resources that already exist except the stack, so a
// failed run can be repeated once the stack has been removed.
package orchestration
