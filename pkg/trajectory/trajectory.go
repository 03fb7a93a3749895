// Package trajectory holds the orbit records passed from samplers to the collector, and
// their line-delimited JSON wire form.
package trajectory

import "github.com/willbeason/buddhabrot/pkg/geometry"

// A Waypoint is one iterate of an orbit that landed inside the raster.
type Waypoint struct {
	X, Y  int
	Point geometry.Complex
}

// A Trajectory is one sampled escaping orbit.
//
// Length may exceed len(Waypoints) since iterates outside the raster are not recorded.
// Waypoints are never serialized.
type Trajectory struct {
	Seed      geometry.Complex `json:"init_c"`
	Waypoints []Waypoint       `json:"-"`
	Length    int              `json:"length"`
}
