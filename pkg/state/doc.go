// Package state provides the namespaced key/value store shared by all
// plugins and core services.
//
// Invariants:
// - A namespace is the unit of isolation: Clear and List never cross it.
// - Insertion order of a namespace is preserved by List.
// - Subscribers are notified with a snapshot of the full namespace after
//   every mutation; a callback may mutate the same namespace without
//   deadlocking.
// - Stored values that no longer decode are treated as absent, not as
//   errors, so one corrupt record cannot break listing.
//
// Usage:
//
//	st := state.New(state.NewMemoryBackend(), logger)
//	ns := st.Namespace("accounts")
//	_ = ns.Set("alice", account)
//	got, ok, _ := state.Get[Account](ns, "alice")
//	_ = got
//	_ = ok
package state
