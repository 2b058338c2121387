package graph

// Direction selects which way a traversal walks the bipartite graph.
// Forward follows produces then consumes hops (who is affected by the
// origin); Backward mirrors the hops (who the origin depends on).
type Direction string

const (
	Forward  Direction = "FORWARD"
	Backward Direction = "BACKWARD"
)

// DefaultLevelLimit bounds how many chains a single pattern query may
// return. Highly connected fields would otherwise explode a level.
const DefaultLevelLimit = 100

// Pattern describes one bounded traversal: every alternating unit/field
// chain of exactly Depth unit hops away from Origin, walked in
// Direction. A Pattern is plain data; each backend renders it into its
// own query text.
type Pattern struct {
	Origin     string    // display name of the starting node
	OriginKind NodeKind  // whether Origin names a unit or a field
	Direction  Direction // forward impact or backward dependency
	Depth      int       // exact number of unit hops, >= 1
	Limit      int       // maximum chains returned for this level
}

// PatternAt builds the traversal pattern for a single depth level with
// the default level limit applied.
func PatternAt(origin string, kind NodeKind, direction Direction, depth int) Pattern {
	return Pattern{
		Origin:     origin,
		OriginKind: kind,
		Direction:  direction,
		Depth:      depth,
		Limit:      DefaultLevelLimit,
	}
}
