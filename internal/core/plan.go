package core

// ExportPlan is the derived, ephemeral sequence the conversion driver (C9)
// builds from a Collection and a selected node subtree before dispatching
// to a writer (spec.md §3 "Export plan (derived, ephemeral)").
type ExportPlan struct {
	// Tracks is the deduplicated sequence of tracks in first-seen order.
	// TrackID[i] == i+1 (1-based, dense).
	Tracks []*Track

	// TrackIDs maps a track's fingerprint to its assigned 1-based id.
	TrackIDs map[string]uint32

	// Nodes is the flattened playlist tree in pre-order: folder and
	// playlist nodes with parent links and seq indices.
	Nodes []PlanNode
}

// PlanNode is one flattened playlist-tree entry.
type PlanNode struct {
	ID       uint32
	ParentID uint32
	Seq      int
	Kind     NodeKind
	Name     string

	// TrackIDs holds this playlist's ordered track-id entries. Empty for
	// folders and smartlists.
	TrackIDs []uint32
}

// NewExportPlan returns an empty plan ready for incremental population.
func NewExportPlan() *ExportPlan {
	return &ExportPlan{TrackIDs: make(map[string]uint32)}
}

// AddTrack appends t if not already present and returns its assigned id.
func (p *ExportPlan) AddTrack(t *Track) uint32 {
	if id, ok := p.TrackIDs[t.Fingerprint]; ok {
		return id
	}
	id := uint32(len(p.Tracks) + 1)
	p.Tracks = append(p.Tracks, t)
	p.TrackIDs[t.Fingerprint] = id
	return id
}
