// Package ui turns vdom descriptors into dom nodes and keeps them in sync.
//
// A Runtime owns a root registry (one entry per mount target), the hooks
// store for every component it renders and the listener side-table of the
// nodes it created. Mount materializes a descriptor into a target, Render
// reconciles a new descriptor against the stored one and ScheduleRerender
// batches state updates into a single microtask that re-renders every root.
//
// # Identity
//
// Component instances are identified by their position: each root gets a
// prefix ("r1", "r2", ...), children extend their parent's path with their
// index or "#"+key, and a component appends ":"+name. Keyed children keep
// their identity, and so their hook state, when they move.
//
// # Spans
//
// A descriptor occupies a span of consecutive live nodes in its parent:
// elements and text one node, fragments the sum of their children (possibly
// none), components the span of their rendered output. The reconciler works on
// (parent, offset) pairs so fragments never need a node of their own.
//
// A Runtime is not safe for concurrent use; drive it from its loop.
package ui
