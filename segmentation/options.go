package segmentation

// ColorDistance selects the color dissimilarity kernel.
type ColorDistance int

// Supported color dissimilarities.
const (
	// LabCIEDE00 converts mean colors to L*a*b* and applies CIEDE2000.
	LabCIEDE00 ColorDistance = iota
	// RGBEuclidean is the Euclidean distance between mean RGB colors.
	RGBEuclidean
)

func (c ColorDistance) String() string {
	switch c {
	case LabCIEDE00:
		return "LAB_CIEDE00"
	case RGBEuclidean:
		return "RGB_EUCL"
	}
	return "unknown"
}

// GeometricDistance selects the geometric dissimilarity kernel.
type GeometricDistance int

// Supported geometric dissimilarities.
const (
	// NormalsDiff combines the normals' cross product with their alignment
	// to the centroid difference.
	NormalsDiff GeometricDistance = iota
	// ConvexNormalsDiff is NormalsDiff, halved when the two regions form a
	// locally convex join.
	ConvexNormalsDiff
)

func (g GeometricDistance) String() string {
	switch g {
	case NormalsDiff:
		return "NORMALS_DIFF"
	case ConvexNormalsDiff:
		return "CONVEX_NORMALS_DIFF"
	}
	return "unknown"
}

// HapticDistance selects the haptic dissimilarity kernel.
type HapticDistance int

// Supported haptic dissimilarities.
const (
	// AverageFriction is the absolute difference of the regions' friction
	// coefficients.
	AverageFriction HapticDistance = iota
)

func (h HapticDistance) String() string {
	if h == AverageFriction {
		return "AVERAGE_FRICTION"
	}
	return "unknown"
}

// MergingCriterion selects how the three per-cue dissimilarities unify into a
// single edge weight.
type MergingCriterion int

// Supported unification strategies.
const (
	// ManualLambda weights the cues with user-provided lambdas.
	ManualLambda MergingCriterion = iota
	// AdaptiveLambda derives the color weight from the initial delta
	// distributions and drops the geometric cue.
	AdaptiveLambda
	// Equalization replaces each delta with its empirical CDF value over the
	// initial edge set, divided by three.
	Equalization
)

func (m MergingCriterion) String() string {
	switch m {
	case ManualLambda:
		return "MANUAL_LAMBDA"
	case AdaptiveLambda:
		return "ADAPTIVE_LAMBDA"
	case Equalization:
		return "EQUALIZATION"
	}
	return "unknown"
}

const (
	defaultLambdaC          = 0.5
	defaultBinsNum          = 500
	defaultSampleRows       = 100
	defaultBackgroundWeight = 0.2
	defaultSeed             = 17
)
