package geometry

import "math"

// Sampling defaults. The host stores edges as opaque curve parameters;
// these subdivision counts are a fixed trade-off between polyline size
// and visual fidelity.
const (
	DefaultArcSteps    = 10
	DefaultSplineSteps = 10

	// Tangents with squared magnitude below this are treated as absent;
	// feeding them to the Hermite basis produces unstable geometry.
	degenerateTangentSq = 0.01
)

// CurveParams is the raw per-edge parameter record read from the host.
// Which fields are meaningful depends on the edge's shape: a straight
// segment carries only A and B, a circular arc carries Center, Radius
// and the angle fields, and a tangent spline carries A, B, TangentA and
// TangentB.
type CurveParams struct {
	A Vec3
	B Vec3

	TangentA  *Vec3
	TangentB  *Vec3
	Center    *Vec3
	Radius    float64
	AngleA    float64
	AngleSpan float64
}

// Sample reconstructs a renderable polyline from curve parameters.
// Shape selection follows field presence: arc parameters win over
// tangents, and degenerate tangents fall back to a straight segment.
func Sample(p CurveParams, arcSteps, splineSteps int) []Vec2 {
	if arcSteps < 1 {
		arcSteps = DefaultArcSteps
	}
	if splineSteps < 1 {
		splineSteps = DefaultSplineSteps
	}
	switch {
	case p.Center != nil && p.Radius > 0:
		return sampleArc(*p.Center, p.Radius, p.AngleA, p.AngleSpan, arcSteps)
	case p.TangentA != nil && p.TangentB != nil:
		if p.TangentA.SqMagnitude() < degenerateTangentSq && p.TangentB.SqMagnitude() < degenerateTangentSq {
			return straight(p.A, p.B)
		}
		return sampleHermite(p.A, p.B, *p.TangentA, *p.TangentB, splineSteps)
	default:
		return straight(p.A, p.B)
	}
}

func straight(a, b Vec3) []Vec2 {
	return []Vec2{a.XY(), b.XY()}
}

func sampleArc(center Vec3, radius, angleA, span float64, steps int) []Vec2 {
	points := make([]Vec2, 0, steps+1)
	for i := 0; i <= steps; i++ {
		angle := angleA + span*float64(i)/float64(steps)
		points = append(points, Vec2{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return points
}

// sampleHermite evaluates the cubic Hermite basis
// h00, h10, h01, h11 over [0,1].
func sampleHermite(a, b, ta, tb Vec3, steps int) []Vec2 {
	points := make([]Vec2, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		t2 := t * t
		t3 := t2 * t
		h00 := 2*t3 - 3*t2 + 1
		h10 := t3 - 2*t2 + t
		h01 := -2*t3 + 3*t2
		h11 := t3 - t2
		points = append(points, Vec2{
			X: h00*a.X + h10*ta.X + h01*b.X + h11*tb.X,
			Y: h00*a.Y + h10*ta.Y + h01*b.Y + h11*tb.Y,
		})
	}
	return points
}
