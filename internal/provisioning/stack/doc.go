// Package stack deploys the IAM baseline CloudFormation stack and follows it
// to a terminal state.
//
// Submission is retried at a fixed interval on every error except "already
// exists", which aborts immediately. Progress is read from the most recent
// stack event until the stack itself reports CREATE_COMPLETE or a rollback.
package stack
