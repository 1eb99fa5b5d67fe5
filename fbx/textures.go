package fbx

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/oxy-forge/oxyfbx/common"
	"github.com/oxy-forge/oxyfbx/scene"
)

// textureFitWorkers bounds the downscale pool's concurrency. Decode/resize/
// re-encode is CPU-bound and independent per texture, so a small fixed pool
// is enough to saturate typical scene texture counts without per-export
// goroutine-spawn overhead dominating small exports.
const textureFitWorkers = 4

// fitTextures decodes, downscales (per opts.MaxTextureSize), and re-encodes
// every distinct texture referenced by the collected mesh objects, fanning
// the independent per-texture work out over a bounded worker pool and
// joining results back by texture identity before the node builder ever
// runs. A texture that fails to decode is logged and simply absent from the
// returned map; buildTextureBinding treats that as "omit this texture".
//
// Parameters:
//   - none beyond the encoder's own collected objects and options
//
// Returns:
//   - map[*scene.Texture][]byte: re-encoded PNG bytes per texture that
//     fitted successfully
func (e *encoder) fitTextures() map[*scene.Texture][]byte {
	var order []*scene.Texture
	seen := make(map[*scene.Texture]bool)
	for _, obj := range e.col.objects {
		if obj.kind != objMesh || obj.node.Mesh == nil {
			continue
		}
		for i := range obj.node.Mesh.Materials {
			tex := obj.node.Mesh.Materials[i].Texture
			if tex == nil || seen[tex] {
				continue
			}
			seen[tex] = true
			order = append(order, tex)
		}
	}
	if len(order) == 0 {
		return nil
	}

	results := make([][]byte, len(order))
	errs := make([]error, len(order))

	pool := worker.NewDynamicWorkerPool(textureFitWorkers, len(order), 30*time.Second)
	var wg sync.WaitGroup
	for i, tex := range order {
		wg.Add(1)
		idx := i
		t := tex
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				img, err := common.DecodeAndFit(t.PNG, e.opts.MaxTextureSize)
				if err != nil {
					errs[idx] = err
					return nil, err
				}
				results[idx] = img.PNG
				return nil, nil
			},
		})
	}
	wg.Wait()

	out := make(map[*scene.Texture][]byte, len(order))
	for i, tex := range order {
		if errs[i] != nil {
			log.Printf("[fbx] skipping texture %q: %v", tex.Name, errs[i])
			continue
		}
		out[tex] = results[i]
	}
	return out
}
