package segmentation

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/visuohaptic/svclust/colorutil"
	"github.com/visuohaptic/svclust/pointcloud"
)

// LabeledCloud projects the current partition onto a point cloud. Regions
// are enumerated in ascending identifier order and assigned dense 0-based
// labels; every voxel of region i emits a point valued i.
func (c *Clustering) LabeledCloud() (pointcloud.PointCloud, error) {
	return c.emit(func(label int, sv *Supervoxel, _ ColoredPoint) pointcloud.Data {
		return pointcloud.NewValueData(label)
	})
}

// ColoredCloud is LabeledCloud with each label replaced by its palette color.
func (c *Clustering) ColoredCloud() (pointcloud.PointCloud, error) {
	return c.emit(func(label int, sv *Supervoxel, _ ColoredPoint) pointcloud.Data {
		return pointcloud.NewColoredData(colorutil.Palette(label)).SetValue(label)
	})
}

// FrictionCloud maps each region's friction onto the red channel for
// visualization, with a fixed blue baseline.
func (c *Clustering) FrictionCloud() (pointcloud.PointCloud, error) {
	return c.emit(func(_ int, sv *Supervoxel, _ ColoredPoint) pointcloud.Data {
		return pointcloud.NewColoredData(color.NRGBA{R: scale255(sv.Friction), B: 50, A: 255})
	})
}

// UncertaintyCloud maps each region's predictive friction variance onto the
// green channel for visualization.
func (c *Clustering) UncertaintyCloud() (pointcloud.PointCloud, error) {
	return c.emit(func(_ int, sv *Supervoxel, _ ColoredPoint) pointcloud.Data {
		return pointcloud.NewColoredData(color.NRGBA{G: scale255(sv.FrictionVariance), A: 255})
	})
}

func (c *Clustering) emit(
	data func(label int, sv *Supervoxel, v ColoredPoint) pointcloud.Data,
) (pointcloud.PointCloud, error) {
	if c.state == nil {
		return nil, errors.New("no state to emit; set an initial state first")
	}
	cloud := pointcloud.New()
	for label, id := range c.state.RegionIDs() {
		sv := c.state.regions[id]
		for _, v := range sv.Voxels {
			if err := cloud.Set(v.Position, data(label, sv, v)); err != nil {
				return nil, err
			}
		}
	}
	return cloud, nil
}

// ColorToLabel converts a cloud whose points are colored by region into a
// labeled cloud, assigning dense labels to distinct colors in encounter
// order.
func ColorToLabel(cloud pointcloud.PointCloud) (pointcloud.PointCloud, error) {
	out := pointcloud.NewWithPrealloc(cloud.Size())
	labels := make(map[color.NRGBA]int)
	var err error
	cloud.Iterate(func(p r3.Vector, d pointcloud.Data) bool {
		r, g, b := d.RGB255()
		key := color.NRGBA{R: r, G: g, B: b, A: 255}
		label, ok := labels[key]
		if !ok {
			label = len(labels)
			labels[key] = label
		}
		err = out.Set(p, pointcloud.NewValueData(label))
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scale255(v float64) uint8 {
	s := v * 255
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}
