package fbx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oxy-forge/oxyfbx/scene"
)

func TestGatherClusterDataNoVertexAppearsTwicePerBone(t *testing.T) {
	e := newEncoder(defaultOptions(), &collection{})
	mesh := &scene.Mesh{
		Positions: make([]mgl32.Vec3, 3),
		SkinIndices: [][4]uint32{
			{0, 1, 0, 0},
			{0, 0, 0, 0},
			{1, 0, 0, 0},
		},
		SkinWeights: [][4]float32{
			{0.5, 0.5, 0, 0},
			{1, 0, 0, 0},
			{1, 0, 0, 0},
		},
	}

	clusters := e.gatherClusterData(mesh)

	seen := make(map[int]map[int32]bool)
	for boneIdx, cd := range clusters {
		if len(cd.indices) != len(cd.weights) {
			t.Errorf("bone %d: len(indices)=%d != len(weights)=%d", boneIdx, len(cd.indices), len(cd.weights))
		}
		seen[boneIdx] = make(map[int32]bool)
		for _, idx := range cd.indices {
			if seen[boneIdx][idx] {
				t.Errorf("bone %d: vertex %d appears twice", boneIdx, idx)
			}
			seen[boneIdx][idx] = true
		}
	}

	if got := len(clusters[0].indices); got != 2 {
		t.Errorf("bone 0 cluster size = %d, want 2", got)
	}
	if got := len(clusters[1].indices); got != 2 {
		t.Errorf("bone 1 cluster size = %d, want 2", got)
	}
}
