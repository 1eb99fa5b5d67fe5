package fbx

import (
	"fmt"

	"github.com/oxy-forge/oxyfbx/scene"
)

var errNilRoot = fmt.Errorf("fbx: root node is nil")

// Export walks root, applies the given Options (layered on top of the
// documented defaults), and returns the root's scene graph encoded as an
// FBX 7500 binary byte stream. Export never mutates root or anything it
// references.
//
// Parameters:
//   - root: the scene hierarchy root, walked by the same collection rules
//     as every other node (it becomes a Null Model unless filtered by
//     visibility, export flag, or mesh-name rules)
//   - opts: functional options layered on top of the defaults
//
// Returns:
//   - []byte: the encoded FBX binary document
//   - error: non-nil only when root is nil; recoverable input anomalies
//     degrade per policy and never reach here
func Export(root *scene.Node, opts ...Option) ([]byte, error) {
	if root == nil {
		return nil, errNilRoot
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	col := collect(root, o)
	enc := newEncoder(o, col)
	topLevel := enc.build()

	return Encode(topLevel), nil
}
