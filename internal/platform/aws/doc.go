// Package aws wraps the AWS control-plane services used to bootstrap an
// account's baseline: Organizations, CloudFormation and STS.
//
// The [Client] translates SDK shapes into the small domain types in this
// package and exposes them through the [OrganizationManager], [StackManager]
// and [IdentityResolver] interfaces consumed by the provisioning phases.
// Error classification helpers ([IsTransient],
// [IsDuplicatePolicy], [IsStackAlreadyExists]) prefer typed SDK error codes over message text.
package aws
