package arena

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hexfall/common"
	"github.com/milk9111/hexfall/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// ProbeGround casts straight down from origin and returns the first tile top
// within maxDistance whose layer is in mask.
func (a *Arena) ProbeGround(origin r3.Vec, maxDistance float64, mask world.Layer) (world.Hit, bool) {
	var best *Tile
	a.tilesAt(cp.Vector{X: origin.X, Y: origin.Z}, func(t *Tile) {
		d := origin.Y - t.center.Y
		if d < 0 || d > maxDistance || mask&layerOf(t) == 0 {
			return
		}
		if best == nil || t.center.Y > best.center.Y {
			best = t
		}
	})
	if best == nil {
		return world.Hit{}, false
	}
	return world.Hit{
		Distance: origin.Y - best.center.Y,
		Point:    r3.Vec{X: origin.X, Y: best.center.Y, Z: origin.Z},
		Normal:   common.Up,
		Tag:      best.Tag(),
		Entity:   best,
	}, true
}

// QueryNearby returns live tiles and bodies whose position lies within
// radius of origin, nearest first.
func (a *Arena) QueryNearby(origin r3.Vec, radius float64) []world.Entity {
	type found struct {
		e world.Entity
		d float64
	}
	var hits []found
	bb := cp.NewBBForCircle(cp.Vector{X: origin.X, Y: origin.Z}, radius)
	a.space.BBQuery(bb, nearbyQuery, func(shape *cp.Shape, data interface{}) {
		var e world.Entity
		switch v := shape.UserData.(type) {
		case *Tile:
			if v.Removed() {
				return
			}
			e = v
		case *Body:
			if v.eliminated {
				return
			}
			e = v
		default:
			return
		}
		d := r3.Norm(r3.Sub(e.Position(), origin))
		if d <= radius {
			hits = append(hits, found{e, d})
		}
	}, nil)

	sort.Slice(hits, func(i, j int) bool { return hits[i].d < hits[j].d })
	out := make([]world.Entity, len(hits))
	for i, h := range hits {
		out[i] = h.e
	}
	return out
}

func layerOf(t *Tile) world.Layer {
	if t.hazard {
		return world.LayerHazard
	}
	return world.LayerGround
}
