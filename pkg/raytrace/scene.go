package raytrace

import "fmt"

// SceneLight is a light together with its on/off switch.
type SceneLight struct {
	Light   Light
	Enabled bool
}

// Scene is an immutable snapshot of models, lights and camera pose. It has
// no mutating methods, so a render can read it from many goroutines while
// the caller keeps editing a Builder.
type Scene struct {
	models []Model
	lights []SceneLight
	pose   Pose
}

// Builder collects scene contents. Build takes a snapshot; the builder can
// keep changing afterwards without affecting scenes already built.
type Builder struct {
	models []Model
	lights []SceneLight
	pose   Pose
}

// NewBuilder starts an empty scene with DefaultPose.
func NewBuilder() *Builder {
	return &Builder{pose: DefaultPose()}
}

// AddModel appends a model and returns its index.
func (b *Builder) AddModel(m Model) int {
	b.models = append(b.models, m)
	return len(b.models) - 1
}

// SetModel replaces the model at index i.
func (b *Builder) SetModel(i int, m Model) error {
	if i < 0 || i >= len(b.models) {
		return fmt.Errorf("model index %d out of range [0,%d)", i, len(b.models))
	}
	b.models[i] = m
	return nil
}

// AddLight appends a light and returns its index.
func (b *Builder) AddLight(l Light, enabled bool) int {
	b.lights = append(b.lights, SceneLight{Light: l, Enabled: enabled})
	return len(b.lights) - 1
}

// SetLightEnabled switches the light at index i on or off.
func (b *Builder) SetLightEnabled(i int, on bool) error {
	if i < 0 || i >= len(b.lights) {
		return fmt.Errorf("light index %d out of range [0,%d)", i, len(b.lights))
	}
	b.lights[i].Enabled = on
	return nil
}

// SetPose sets the camera pose stored with the scene.
func (b *Builder) SetPose(p Pose) {
	b.pose = p
}

// Build returns a snapshot of the current contents.
func (b *Builder) Build() *Scene {
	return &Scene{
		models: append([]Model(nil), b.models...),
		lights: append([]SceneLight(nil), b.lights...),
		pose:   b.pose,
	}
}

// Models returns a copy of the model list.
func (s *Scene) Models() []Model {
	return append([]Model(nil), s.models...)
}

// Lights returns a copy of the light list.
func (s *Scene) Lights() []SceneLight {
	return append([]SceneLight(nil), s.lights...)
}

// Pose returns the camera pose stored with the scene.
func (s *Scene) Pose() Pose {
	return s.pose
}

// Bounds returns the world-space box around every model.
func (s *Scene) Bounds() AABB {
	b := EmptyAABB()
	for _, m := range s.models {
		b = b.Union(m.Bounds().Transform(m.Transform()))
	}
	return b
}

// Intersect finds the nearest hit of is.Ray across all models. Each model
// is tested in its own frame and its local hit is promoted only if it is
// strictly nearer than the best so far, so model order does not change the
// result. It reports whether is holds a hit.
func (s *Scene) Intersect(is *Intersection) bool {
	for _, m := range s.models {
		local := is.Ray.Transform(m.frame().toLocal)
		if hit, ok := m.IntersectLocal(local); ok {
			is.promote(m, hit)
		}
	}
	return is.Hit
}

// Occluded reports whether anything lies along r.
func (s *Scene) Occluded(r Ray) bool {
	return s.Intersect(NewIntersection(r))
}
