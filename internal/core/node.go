package core

import "github.com/google/uuid"

// NodeKind is the type of a playlist-tree node.
type NodeKind int

const (
	NodeFolder NodeKind = iota
	NodePlaylist
	NodeSmartlist
)

// Node is a playlist-tree entry. Folders carry Children in source order;
// playlists carry TrackKeys (the source's full volume+path key) in source
// order; smartlists carry Query verbatim and are ignored for hardware
// export (spec.md §3 "Node (playlist tree)").
type Node struct {
	UUID uuid.UUID
	Kind NodeKind
	Name string

	Children []*Node

	// TrackKeys holds the unresolved source keys for a playlist node, in
	// source order, before cross-resolution (spec.md §4.4).
	TrackKeys []string

	// Tracks holds the resolved fingerprints for a playlist node after
	// cross-resolution. Entries that failed to resolve are dropped.
	Tracks []string

	// Query is the smartlist's free-form search expression, passed through
	// verbatim to interchange XML and ignored for hardware export.
	Query string

	// Empty is set when cross-resolution left a playlist with no
	// resolvable entries (spec.md §4.4 "flagged empty").
	Empty bool
}

// NewNode constructs a Node with a fresh UUID.
func NewNode(kind NodeKind, name string) *Node {
	return &Node{UUID: uuid.New(), Kind: kind, Name: name}
}

// Walk invokes fn for this node and every descendant, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
