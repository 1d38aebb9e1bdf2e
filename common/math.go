package common

// Vec2 is a plain two-component float32 vector. It carries no ownership
// semantics and is always passed by value.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a plain three-component float32 vector. It carries no ownership
// semantics and is always passed by value.
type Vec3 struct {
	X, Y, Z float32
}
