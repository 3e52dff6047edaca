package purgatory

import (
	"math"

	"github.com/sgentle/polygon-purgatory/transform"
	"github.com/sgentle/polygon-purgatory/vect"
)

//unique outward edge normals of a convex loop.
type Axes []vect.Vect

//steeper edges count as vertical.
const maxGradient = 1e12

type gradientKey struct {
	vertical bool
	slope    int64
}

//builds the axes of verts. Parallel edges share one axis, compared by
//gradient rounded to three decimals, keeping first-seen order.
func AxesFromVertices(verts Vertices) Axes {
	axes := make(Axes, 0, len(verts))
	seen := make(map[gradientKey]int, len(verts))

	for i := range verts {
		j := (i + 1) % len(verts)
		normal := vect.Normalize(vect.Vect{
			X: verts[j].Y - verts[i].Y,
			Y: verts[i].X - verts[j].X,
		})

		gradient := float64(normal.X / normal.Y)
		key := gradientKey{vertical: normal.Y == 0 || math.Abs(gradient) > maxGradient}
		if !key.vertical {
			key.slope = int64(math.Round(gradient * 1000))
		}

		if idx, ok := seen[key]; ok {
			axes[idx] = normal
			continue
		}
		seen[key] = len(axes)
		axes = append(axes, normal)
	}

	return axes
}

func (axes Axes) Rotate(angle vect.Float) {
	if angle == 0 {
		return
	}
	rot := transform.NewRotation(angle)
	for i := range axes {
		axes[i] = rot.RotateVect(axes[i])
	}
}
