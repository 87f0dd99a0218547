// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - CloudFixture: In-memory Organizations and CloudFormation fake for common scenarios
//   - MockOrganizationManager, MockStackManager, MockIdentityResolver: shared testify mocks
//   - RecordingObserver: Observer that keeps every event for assertions
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithStackName("baseline").
//	    Build()
//
//	fixture := testing.NewCloudFixture()
//	cloud := fixture.SuccessfulBaseline()
package testing
