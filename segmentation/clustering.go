// Package segmentation implements hierarchical region merging over a
// supervoxel over-segmentation, fusing color, surface-normal, and haptic
// friction cues into a single edge weight and contracting the cheapest edge
// until a threshold is reached.
package segmentation

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/visuohaptic/svclust/gmm"
	"github.com/visuohaptic/svclust/haptic"
)

// Clustering is the region-merging engine. It owns the initial and current
// clustering states, the configured distance kernels and unification
// criterion, and the friction mixture fitted during initialization. It is
// not safe for concurrent use; readers must observe the state between runs.
type Clustering struct {
	logger golog.Logger

	deltaCType  ColorDistance
	deltaGType  GeometricDistance
	deltaHType  HapticDistance
	mergingType MergingCriterion

	lambdaC float64
	lambdaG float64
	binsNum int
	cdfC    []float64
	cdfG    []float64
	cdfH    []float64

	sampleRows       int
	backgroundWeight float64
	seed             uint64
	mixture          *gmm.Mixture

	initialState     *ClusteringState
	state            *ClusteringState
	haveInitialState bool
	weightsReady     bool
}

// NewClustering returns an engine with the default configuration: CIEDE2000
// color distance, plain normal difference, average-friction haptic distance,
// and the adaptive lambda unification.
func NewClustering(logger golog.Logger) *Clustering {
	return &Clustering{
		logger:           logger,
		deltaCType:       LabCIEDE00,
		deltaGType:       NormalsDiff,
		deltaHType:       AverageFriction,
		mergingType:      AdaptiveLambda,
		lambdaC:          defaultLambdaC,
		binsNum:          defaultBinsNum,
		sampleRows:       defaultSampleRows,
		backgroundWeight: defaultBackgroundWeight,
		seed:             defaultSeed,
	}
}

// SetColorDistance selects the color dissimilarity kernel.
func (c *Clustering) SetColorDistance(d ColorDistance) error {
	if d != LabCIEDE00 && d != RGBEuclidean {
		return errors.Errorf("unknown color distance %d", d)
	}
	c.deltaCType = d
	c.weightsReady = false
	return nil
}

// SetGeometricDistance selects the geometric dissimilarity kernel.
func (c *Clustering) SetGeometricDistance(d GeometricDistance) error {
	if d != NormalsDiff && d != ConvexNormalsDiff {
		return errors.Errorf("unknown geometric distance %d", d)
	}
	c.deltaGType = d
	c.weightsReady = false
	return nil
}

// SetHapticDistance selects the haptic dissimilarity kernel.
func (c *Clustering) SetHapticDistance(d HapticDistance) error {
	if d != AverageFriction {
		return errors.Errorf("unknown haptic distance %d", d)
	}
	c.deltaHType = d
	c.weightsReady = false
	return nil
}

// SetMergingCriterion selects the unification strategy and resets its
// parameters to their defaults.
func (c *Clustering) SetMergingCriterion(m MergingCriterion) error {
	if m != ManualLambda && m != AdaptiveLambda && m != Equalization {
		return errors.Errorf("unknown merging criterion %d", m)
	}
	c.mergingType = m
	c.lambdaC = defaultLambdaC
	c.lambdaG = 0
	c.binsNum = defaultBinsNum
	c.weightsReady = false
	return nil
}

// SetLambda sets the manual color and geometry weights. It is a logic error
// to call it under any criterion other than ManualLambda.
func (c *Clustering) SetLambda(lambdaC, lambdaG float64) error {
	if c.mergingType != ManualLambda {
		return errors.New("lambdas can be set only when the merging criterion is MANUAL_LAMBDA")
	}
	var err error
	if lambdaC < 0 || lambdaC > 1 {
		err = multierr.Append(err, errors.Errorf("lambda_c %f outside [0,1]", lambdaC))
	}
	if lambdaG < 0 || lambdaG > 1 {
		err = multierr.Append(err, errors.Errorf("lambda_g %f outside [0,1]", lambdaG))
	}
	if lambdaC+lambdaG > 1 {
		err = multierr.Append(err, errors.Errorf("lambda_c + lambda_g = %f exceeds 1", lambdaC+lambdaG))
	}
	if err != nil {
		return err
	}
	c.lambdaC = lambdaC
	c.lambdaG = lambdaG
	c.weightsReady = false
	return nil
}

// SetBins sets the histogram resolution for the equalization criterion. It is
// a logic error to call it under any other criterion.
func (c *Clustering) SetBins(bins int) error {
	if c.mergingType != Equalization {
		return errors.New("bins can be set only when the merging criterion is EQUALIZATION")
	}
	if bins <= 0 {
		return errors.Errorf("bins must be positive, got %d", bins)
	}
	c.binsNum = bins
	c.weightsReady = false
	return nil
}

// SetSampleRows sets how many synthetic samples each touched region
// contributes to the friction mixture fit.
func (c *Clustering) SetSampleRows(n int) error {
	if n <= 0 {
		return errors.Errorf("sample rows must be positive, got %d", n)
	}
	c.sampleRows = n
	return nil
}

// SetBackgroundWeight sets the mixture weight given to the background
// component when it is appended.
func (c *Clustering) SetBackgroundWeight(alpha float64) error {
	if alpha < 0 || alpha >= 1 {
		return errors.Errorf("background weight %f outside [0,1)", alpha)
	}
	c.backgroundWeight = alpha
	return nil
}

// SetSeed sets the seed of the engine-local random source used when drawing
// synthetic samples for the mixture fit.
func (c *Clustering) SetSeed(seed uint64) {
	c.seed = seed
}

// Mixture returns the friction mixture fitted during the last initialization,
// or nil when imputation has not run.
func (c *Clustering) Mixture() *gmm.Mixture {
	return c.mixture
}

// SetInitialState ingests an external over-segmentation, its adjacency, and
// an optional haptic track (nil for none). Friction estimation and
// imputation run here, edges are canonicalized, and the resulting state is
// retained as the starting point for every subsequent clustering run.
func (c *Clustering) SetInitialState(
	segm map[uint32]*Supervoxel,
	adjacency [][2]uint32,
	track haptic.Track,
) error {
	if len(segm) == 0 {
		return errors.New("over-segmentation is empty")
	}
	regions, err := c.estimateFrictionsAndStatistics(segm, track)
	if err != nil {
		return err
	}

	graph := NewWeightedGraph()
	for _, pair := range adjacency {
		edge, ok := NewEdge(pair[0], pair[1])
		if !ok {
			continue // self-loop
		}
		if _, ok := regions[edge.U]; !ok {
			return errors.Errorf("adjacency references unknown region %d", edge.U)
		}
		if _, ok := regions[edge.V]; !ok {
			return errors.Errorf("adjacency references unknown region %d", edge.V)
		}
		graph.Insert(WeightedEdge{Weight: unweighted, Edge: edge})
	}

	c.initialState = &ClusteringState{regions: regions, graph: graph}
	c.state = c.initialState
	c.haveInitialState = true
	c.weightsReady = false
	return nil
}

// State returns the current clustering state, which is the initial state
// until Cluster has run.
func (c *Clustering) State() *ClusteringState {
	return c.state
}

// InitialState returns the retained starting state.
func (c *Clustering) InitialState() *ClusteringState {
	return c.initialState
}

// Adjacency returns the current state's adjacency pairs in canonical order.
func (c *Clustering) Adjacency() []Edge {
	if c.state == nil {
		return nil
	}
	return c.state.graph.Adjacency()
}

// initWeights computes the three cue deltas for every initial edge once,
// derives the mode-specific unification parameters from those distributions,
// and reweights the initial graph.
func (c *Clustering) initWeights() {
	edges := c.initialState.graph.Adjacency()
	cached := make(map[Edge]deltas, len(edges))
	dc := make([]float64, 0, len(edges))
	dg := make([]float64, 0, len(edges))
	dh := make([]float64, 0, len(edges))
	for _, e := range edges {
		d := c.deltaCGH(c.initialState.regions[e.U], c.initialState.regions[e.V])
		cached[e] = d
		dc = append(dc, d.c)
		dg = append(dg, d.g)
		dh = append(dh, d.h)
	}

	c.initMergingParameters(dc, dg, dh)

	graph := NewWeightedGraph()
	for _, e := range edges {
		d := cached[e]
		graph.Insert(WeightedEdge{Weight: c.tC(d.c) + c.tG(d.g) + c.tH(d.h), Edge: e})
	}
	c.initialState.graph = graph
	if c.state != nil && c.state != c.initialState {
		// a stale continuation state would reference the old weighting
		c.state = c.initialState
	}
	c.weightsReady = true
}

// Cluster runs the merge loop from the initial state until the cheapest
// remaining edge weighs at least threshold. Weights are initialized on first
// use. Calling Cluster before SetInitialState is a logic error.
func (c *Clustering) Cluster(threshold float64) error {
	if !c.haveInitialState {
		return errors.New("cannot cluster before an initial state is set")
	}
	if threshold < 0 || threshold > 1 {
		return errors.Errorf("threshold %f outside [0,1]", threshold)
	}
	if !c.weightsReady {
		c.initWeights()
		c.logger.Debug("edge weights initialized")
	}
	c.state = c.initialState.clone()
	c.clusterFrom(c.state, threshold)
	return nil
}

// clusterFrom continues merging on the given state until the stopping
// threshold is reached. Edges are contracted strictly in weight order; ties
// break on the canonical edge order.
func (c *Clustering) clusterFrom(state *ClusteringState, threshold float64) {
	for {
		next, ok := state.graph.Min()
		if !ok || next.Weight >= threshold {
			return
		}
		state.graph.ExtractMin()
		c.logger.Debugf("left: %de/%dp - w: %f - [%d, %d]",
			state.graph.Len(), len(state.regions), next.Weight, next.Edge.U, next.Edge.V)
		c.merge(state, next.Edge)
	}
}

// merge contracts the given edge: the two regions combine under the smaller
// identifier, the larger identifier is retired, incident edges are renamed
// and reweighted, and parallel edges collapsing onto the same pair are
// deduplicated. Weights of edges not incident on the merged region are
// unaffected.
func (c *Clustering) merge(state *ClusteringState, e Edge) {
	merged := mergeSupervoxels(state.regions[e.U], state.regions[e.V])
	delete(state.regions, e.V)
	state.regions[e.U] = merged

	old := state.graph.Edges()
	graph := NewWeightedGraph()
	for _, we := range old {
		edge, ok := we.Edge.rename(e.V, e.U)
		if !ok {
			continue
		}
		if graph.Contains(edge) {
			continue
		}
		weight := we.Weight
		if edge.Touches(e.U) {
			weight = c.delta(state.regions[edge.U], state.regions[edge.V])
		}
		graph.Insert(WeightedEdge{Weight: weight, Edge: edge})
	}
	state.graph = graph
}
