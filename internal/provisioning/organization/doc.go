// Package organization creates or adopts the AWS Organization, resolves its
// root, and enables service control policies on the root.
//
// Creation failures are tolerated: whatever CreateOrganization returns, the
// organization is described until it reports an ID. Enabling the policy type
// is best effort and always followed by a fixed settle wait.
package organization
