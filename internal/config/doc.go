// Package config loads and validates the rekindle tool configuration:
// where runs live, how to reach the kernel binary, and how to log. It
// configures the tooling around the library, not the physics; problem
// setups are pkg/settings territory.
package config
