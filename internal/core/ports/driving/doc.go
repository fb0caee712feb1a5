// Package driving defines the service interfaces exposed to the CLI and
// TUI adapters. Each interface is implemented by a core service and
// injected into the adapters at startup; adapters never construct core
// state themselves.
package driving
