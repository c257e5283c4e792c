package segmentation

import "sort"

// ClusteringState is the live partition: the region table and the weighted
// adjacency graph over it. Region identifiers are stable across a merge; the
// smaller identifier survives and the larger one is retired for the rest of
// the run.
type ClusteringState struct {
	regions map[uint32]*Supervoxel
	graph   *WeightedGraph
}

// Regions returns the region table. Callers must not mutate it while a
// clustering run is in progress.
func (s *ClusteringState) Regions() map[uint32]*Supervoxel {
	return s.regions
}

// Graph returns the weighted adjacency graph.
func (s *ClusteringState) Graph() *WeightedGraph {
	return s.graph
}

// RegionIDs returns the region identifiers in ascending order. Enumeration
// order is the label order used by cloud emission.
func (s *ClusteringState) RegionIDs() []uint32 {
	ids := make([]uint32, 0, len(s.regions))
	for id := range s.regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// clone returns a state sharing the (immutable once built) supervoxel records
// but owning fresh table and graph containers, so a clustering run on the
// clone leaves the original untouched.
func (s *ClusteringState) clone() *ClusteringState {
	regions := make(map[uint32]*Supervoxel, len(s.regions))
	for id, sv := range s.regions {
		regions[id] = sv
	}
	return &ClusteringState{regions: regions, graph: s.graph.clone()}
}
