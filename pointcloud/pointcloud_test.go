package pointcloud

import (
	"image/color"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSetAndAt(t *testing.T) {
	cloud := New()
	test.That(t, cloud.Size(), test.ShouldEqual, 0)

	err := cloud.Set(NewVector(1, 2, 3), NewColoredData(color.NRGBA{R: 255, A: 255}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloud.Size(), test.ShouldEqual, 1)

	d, ok := cloud.At(1, 2, 3)
	test.That(t, ok, test.ShouldBeTrue)
	r, g, b := d.RGB255()
	test.That(t, r, test.ShouldEqual, 255)
	test.That(t, g, test.ShouldEqual, 0)
	test.That(t, b, test.ShouldEqual, 0)

	_, ok = cloud.At(3, 2, 1)
	test.That(t, ok, test.ShouldBeFalse)

	// setting the same position replaces the data, not the point
	err = cloud.Set(NewVector(1, 2, 3), NewValueData(7))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloud.Size(), test.ShouldEqual, 1)
	d, _ = cloud.At(1, 2, 3)
	test.That(t, d.Value(), test.ShouldEqual, 7)
}

func TestIterateOrder(t *testing.T) {
	cloud := New()
	positions := []r3.Vector{
		NewVector(5, 0, 0),
		NewVector(1, 1, 1),
		NewVector(-2, 0, 4),
	}
	for i, p := range positions {
		test.That(t, cloud.Set(p, NewValueData(i)), test.ShouldBeNil)
	}
	var got []r3.Vector
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		got = append(got, p)
		return true
	})
	test.That(t, got, test.ShouldResemble, positions)

	// early exit
	count := 0
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		count++
		return false
	})
	test.That(t, count, test.ShouldEqual, 1)
}

func TestMetaData(t *testing.T) {
	cloud := New()
	test.That(t, cloud.Set(NewVector(-1, 5, 2), NewValueData(0)), test.ShouldBeNil)
	test.That(t, cloud.Set(NewVector(3, -4, 0), NewColoredData(color.NRGBA{A: 255})), test.ShouldBeNil)
	meta := cloud.MetaData()
	test.That(t, meta.HasValue, test.ShouldBeTrue)
	test.That(t, meta.HasColor, test.ShouldBeTrue)
	test.That(t, meta.MinX, test.ShouldEqual, -1)
	test.That(t, meta.MaxX, test.ShouldEqual, 3)
	test.That(t, meta.MinY, test.ShouldEqual, -4)
	test.That(t, meta.MaxY, test.ShouldEqual, 5)
	test.That(t, meta.MinZ, test.ShouldEqual, 0)
	test.That(t, meta.MaxZ, test.ShouldEqual, 2)
}
