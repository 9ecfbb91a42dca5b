package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

// BodyKind selects how a body moves.
type BodyKind int

const (
	// Fixed bodies never move.
	Fixed BodyKind = iota
	// Kinematic bodies are moved by their owner through SetKinematicTranslation.
	Kinematic
	// Dynamic bodies are integrated by the world under gravity.
	Dynamic
)

func (k BodyKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	}
	return "unknown"
}

// BodyID identifies a body inside one World.
type BodyID uint64

// Shape is a sphere when Radius is positive, an axis aligned box otherwise.
type Shape struct {
	Radius      float64
	HalfExtents mgl64.Vec3
}

// Sphere returns a sphere shape.
func Sphere(radius float64) Shape {
	return Shape{Radius: radius}
}

// Box returns a box shape with the given half extents.
func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{HalfExtents: halfExtents}
}

// IsSphere reports whether the shape is a sphere.
func (s Shape) IsSphere() bool {
	return s.Radius > 0
}

// Extents returns the half extents of the shape's bounding box.
func (s Shape) Extents() mgl64.Vec3 {
	if s.IsSphere() {
		return mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	}
	return s.HalfExtents
}

// BodySpec describes a body to add to the world.
type BodySpec struct {
	Kind     BodyKind
	Shape    Shape
	Position mgl64.Vec3
	Velocity mgl64.Vec3 // initial velocity, dynamic bodies only

	// ReportContacts makes the world emit enter/exit events for this body.
	ReportContacts bool
	// KinematicFixed enables contacts between this kinematic body and fixed
	// bodies, which are not reported by default.
	KinematicFixed bool

	Data interface{}
}

// Body is the world's view of a rigid body.
type Body struct {
	ID       BodyID
	Kind     BodyKind
	Shape    Shape
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	// Moved is set when a kinematic translation was applied since the last step.
	Moved bool

	ReportContacts bool
	KinematicFixed bool
	Data           interface{}

	object *resolv.Object
}
