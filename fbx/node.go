// Package fbx encodes an in-memory scene graph (see package scene) into the
// binary FBX 7500 interchange format as a single contiguous byte stream.
package fbx

// --- Node Tree ---

// Node is the universal container of the FBX binary format: a named record
// with an ordered list of typed properties and an ordered list of child
// records. The tree built by the collector/builder/skinning/animation
// stages is walked once by the writer to produce the output byte stream.
type Node struct {
	// Name is the record name, at most 255 bytes.
	Name string

	// Properties are this node's typed property values, in order.
	Properties []Property

	// Children are this node's child records, in order.
	Children []*Node
}

// NewNode constructs a Node with the given name and properties.
//
// Parameters:
//   - name: the record name
//   - props: the record's typed property values, in order
//
// Returns:
//   - *Node: the constructed node, with no children
func NewNode(name string, props ...Property) *Node {
	return &Node{Name: name, Properties: props}
}

// Add appends children to n and returns n, so tree construction can chain.
//
// Parameters:
//   - children: child records to append, in order
//
// Returns:
//   - *Node: n, for chaining
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// --- Property Value Tagged Union ---

// Property is a single typed scalar or typed array embedded in a Node. Only
// one of the fields matching Kind is meaningful; callers must use the
// constructor functions below rather than building a Property directly, so
// Kind and the payload never drift apart.
type Property struct {
	Kind propertyKind

	b   bool
	i32 int32
	i64 int64
	f32 float32
	f64 float64
	str string
	raw []byte

	i32arr []int32
	i64arr []int64
	f32arr []float32
	f64arr []float64
	barr   []bool
}

type propertyKind uint8

const (
	kindBool propertyKind = iota
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
	kindString
	kindRaw
	kindInt32Array
	kindInt64Array
	kindFloat32Array
	kindFloat64Array
	kindBoolArray
)

// Bool wraps a boolean property value (tag 'C').
func Bool(v bool) Property { return Property{Kind: kindBool, b: v} }

// Int32 wraps a signed 32-bit integer property value (tag 'I').
func Int32(v int32) Property { return Property{Kind: kindInt32, i32: v} }

// Int64 wraps a signed 64-bit integer property value (tag 'L').
func Int64(v int64) Property { return Property{Kind: kindInt64, i64: v} }

// Float32 wraps a 32-bit float property value (tag 'F').
func Float32(v float32) Property { return Property{Kind: kindFloat32, f32: v} }

// Float64 wraps a 64-bit float property value (tag 'D').
func Float64(v float64) Property { return Property{Kind: kindFloat64, f64: v} }

// String wraps a string property value (tag 'S').
func String(v string) Property { return Property{Kind: kindString, str: v} }

// Raw wraps an opaque byte-string property value (tag 'R').
func Raw(v []byte) Property { return Property{Kind: kindRaw, raw: v} }

// Int32Array wraps a typed int32 array property value (tag 'i').
func Int32Array(v []int32) Property { return Property{Kind: kindInt32Array, i32arr: v} }

// Int64Array wraps a typed int64 array property value (tag 'l').
func Int64Array(v []int64) Property { return Property{Kind: kindInt64Array, i64arr: v} }

// Float32Array wraps a typed float32 array property value (tag 'f').
func Float32Array(v []float32) Property { return Property{Kind: kindFloat32Array, f32arr: v} }

// Float64Array wraps a typed float64 array property value (tag 'd').
func Float64Array(v []float64) Property { return Property{Kind: kindFloat64Array, f64arr: v} }

// BoolArray wraps a typed bool array property value (tag 'b').
func BoolArray(v []bool) Property { return Property{Kind: kindBoolArray, barr: v} }

// Int picks Int32 or Int64 depending on whether v fits in 32 bits, matching
// the writer's numeric-selection rule for untagged integers.
//
// Parameters:
//   - v: the integer value
//
// Returns:
//   - Property: Int32(v) if it fits in signed 32 bits, else Int64(v)
func Int(v int64) Property {
	if v >= -(1<<31) && v <= (1<<31-1) {
		return Int32(int32(v))
	}
	return Int64(v)
}
