// Package plugin turns a set of manifests into a running command surface
// with enforced isolation.
//
// Each plugin declares the capabilities it needs; the manager validates the
// manifest, builds a scope exposing only the granted resources, runs the
// plugin's init hook, and binds its commands to the CLI surface. A handler
// closes over its plugin's scope, so it cannot reach another plugin's
// namespace even if it imports the raw store type.
//
// Invariants:
// - Every state:namespace capability must pair with a declared state
//   schema, and vice versa.
// - A manifest failure is fatal to that plugin only; a command name
//   collision is fatal to the whole manager.
// - Init failures are collected after all plugins have been attempted;
//   teardown runs best-effort in reverse registration order.
package plugin
