package fbx

import "github.com/oxy-forge/oxyfbx/scene"

// Options configures an Export call. The zero value is never used directly;
// construct via the With* functional options, which apply on top of the
// documented defaults.
type Options struct {
	ExportSkin      bool
	ExportMaterials bool
	OnlyVisible     bool
	EmbedImages     bool
	MaxTextureSize  int
	Scale           float32
	Animations      []scene.AnimationClip
}

// Option is a functional option for configuring an Export call.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		ExportSkin:      true,
		ExportMaterials: true,
		OnlyVisible:     true,
		EmbedImages:     true,
		MaxTextureSize:  0,
		Scale:           100.0,
	}
}

// WithExportSkin is an option builder that toggles inclusion of skin
// deformers, clusters, vertex groups, and the bind pose.
//
// Parameters:
//   - enabled: whether to export skinning data
//
// Returns:
//   - Option: a function that applies the exportSkin option
func WithExportSkin(enabled bool) Option {
	return func(o *Options) { o.ExportSkin = enabled }
}

// WithExportMaterials is an option builder that toggles inclusion of
// material nodes and material→model connections.
//
// Parameters:
//   - enabled: whether to export materials
//
// Returns:
//   - Option: a function that applies the exportMaterials option
func WithExportMaterials(enabled bool) Option {
	return func(o *Options) { o.ExportMaterials = enabled }
}

// WithOnlyVisible is an option builder that toggles skipping objects whose
// visible flag is false.
//
// Parameters:
//   - enabled: whether to skip invisible objects
//
// Returns:
//   - Option: a function that applies the onlyVisible option
func WithOnlyVisible(enabled bool) Option {
	return func(o *Options) { o.OnlyVisible = enabled }
}

// WithEmbedImages is an option builder that toggles embedding Video nodes
// with PNG byte content for each referenced texture.
//
// Parameters:
//   - enabled: whether to embed texture images
//
// Returns:
//   - Option: a function that applies the embedImages option
func WithEmbedImages(enabled bool) Option {
	return func(o *Options) { o.EmbedImages = enabled }
}

// WithMaxTextureSize is an option builder that sets the pixel dimension
// above which embedded textures are downscaled. 0 means unlimited.
//
// Parameters:
//   - size: maximum width/height in pixels, or 0 for unlimited
//
// Returns:
//   - Option: a function that applies the maxTextureSize option
func WithMaxTextureSize(size int) Option {
	return func(o *Options) { o.MaxTextureSize = size }
}

// WithScale is an option builder that sets the multiplier applied to vertex
// positions and to the translation column of all exported matrices.
//
// Parameters:
//   - scale: the output scale multiplier
//
// Returns:
//   - Option: a function that applies the scale option
func WithScale(scale float32) Option {
	return func(o *Options) { o.Scale = scale }
}

// WithAnimations is an option builder that sets the animation clips to
// emit.
//
// Parameters:
//   - clips: the clips to emit, in order
//
// Returns:
//   - Option: a function that applies the animations option
func WithAnimations(clips ...scene.AnimationClip) Option {
	return func(o *Options) { o.Animations = clips }
}
