// Package policydoc builds and validates guardrail policy documents.
//
// The built-in [DenyAllBilling] document denies the billing, cost explorer
// and cost-and-usage-report actions for every resource. Custom documents can
// be loaded from YAML or JSON files with [Load]; both are rendered to the
// compact JSON the Organizations API expects by [Document.JSON].
package policydoc
