// Package bootstrap orchestrates the provisioning sequence that makes the
// sandbox usable: wait for the broker and the schema registry, ensure the
// configured topics, ensure the configured schemas, and attach an optional
// devcontainer to the sandbox network.
//
// The sequence is re-entrant; every step converges on already-provisioned
// state instead of failing on it. Failures propagate by dependency order:
// readiness and topic failures halt the run, schema failures are recorded
// per subject while the siblings are still attempted, and the network attach
// is never fatal.
package bootstrap
