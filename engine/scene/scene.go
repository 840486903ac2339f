package scene

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/camera"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
	"github.com/cogentcore/webgpu/wgpu"
)

// replaceBlend writes sampled texels straight to the target, alpha included.
var replaceBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

const (
	// atlasGroup is the bind group holding the diffuse texture and its sampler.
	atlasGroup = 0
	// cameraGroup is the bind group holding the scaling uniform.
	cameraGroup = 1
)

// ErrNotInitialized is returned by operations that need GPU resources before Init has run.
var ErrNotInitialized = errors.New("scene: not initialized")

// Scene draws ordered sprite batches through one instanced pipeline. Every batch shares the
// quad mesh, the atlas texture and the scaling camera; each batch owns its instance buffer.
// Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's scaling camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Init compiles and registers the sprite pipeline, then creates the atlas texture, sampler,
	// camera uniform and quad mesh on the GPU. Calling Init again is a no-op.
	//
	// Returns:
	//   - error: an error if any shader or GPU resource could not be created
	Init() error

	// AddBatch appends a batch to the draw list. Batches draw in the order they were added.
	//
	// Parameters:
	//   - b: the batch to draw
	AddBatch(b sprite.Batch)

	// Batches returns the batches in draw order.
	//
	// Returns:
	//   - []sprite.Batch: a copy of the draw list
	Batches() []sprite.Batch

	// PrepareFrame uploads the camera uniform and any batch whose instances changed since the last frame.
	// Dirty batches are marshalled in parallel on the scene's worker pool.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the joined instance upload errors. Batches
	//     whose upload failed stay dirty and are retried on the next call.
	PrepareFrame() error

	// DrawCalls issues one instanced draw per visible batch, in draw order.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: error if a draw call fails
	DrawCalls() error

	// Resize rescales the camera for the new framebuffer size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	atlas   *image.RGBA
	sampler common.SamplerStagingData
	source  string

	pipelineKey      string
	strictValidation bool
	initialized      bool

	atlasBGP bind_group_provider.BindGroupProvider
	meshBGP  bind_group_provider.BindGroupProvider

	batches    []sprite.Batch
	batchBGPs  map[sprite.Batch]bind_group_provider.BindGroupProvider
	drawGroups []bind_group_provider.BindGroupProvider

	// pool marshals dirty batches concurrently. Workers persist across frames.
	pool    worker.DynamicWorkerPool
	workers int
	taskID  int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a Scene drawing sprites out of atlas through the scaling camera cam.
// GPU resources are not created until Init.
//
// Parameters:
//   - name: the name of the scene, also used as the pipeline key prefix
//   - cam: the scaling camera (must not be nil)
//   - r: the renderer (must not be nil)
//   - atlas: the sprite atlas bound at group 0 (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, atlas *image.RGBA, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if atlas == nil {
		panic("scene: NewScene requires a non-nil atlas")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		active:      true,
		cam:         cam,
		r:           r,
		atlas:       atlas,
		sampler:     common.NearestClampSampler,
		source:      sprite.ShaderSource,
		pipelineKey: name + "_sprite",
		batchBGPs:   make(map[sprite.Batch]bind_group_provider.BindGroupProvider),
		drawGroups:  make([]bind_group_provider.BindGroupProvider, 2),
		workers:     max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	vs, err := shader.NewShaderFromSource(s.pipelineKey+"_vs", shader.ShaderTypeVertex, s.source)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	fs, err := shader.NewShaderFromSource(s.pipelineKey+"_fs", shader.ShaderTypeFragment, s.source)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	// the driver compiles WGSL on its own, so naga is advisory unless strict
	if err := shader.Validate(vs); err != nil {
		if s.strictValidation {
			return fmt.Errorf("scene %s: %w", s.name, err)
		}
		common.Logger().Warn("sprite shader did not pass offline validation", "scene", s.name, "err", err)
	}

	p := pipeline.NewPipeline(s.pipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
		pipeline.WithBlendEnabled(true),
		pipeline.WithBlendState(&replaceBlend),
	)
	if err := s.r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	layouts := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	atlasLayout, ok := layouts[atlasGroup]
	if !ok {
		return fmt.Errorf("scene %s: shader declares no atlas group %d", s.name, atlasGroup)
	}
	cameraLayout, ok := layouts[cameraGroup]
	if !ok {
		return fmt.Errorf("scene %s: shader declares no camera group %d", s.name, cameraGroup)
	}

	textureBinding, samplerBinding := atlasBindings(fs)

	atlasBGP := bind_group_provider.NewBindGroupProvider(s.name + "_atlas")
	if err := s.r.InitTextureView(atlasBGP, textureBinding, common.StagingFromRGBA(s.atlas)); err != nil {
		return fmt.Errorf("scene %s: atlas texture: %w", s.name, err)
	}
	if err := s.r.InitSampler(atlasBGP, samplerBinding, s.sampler); err != nil {
		return fmt.Errorf("scene %s: atlas sampler: %w", s.name, err)
	}
	if err := s.r.InitBindGroup(atlasBGP, atlasLayout, nil, nil); err != nil {
		return fmt.Errorf("scene %s: atlas bind group: %w", s.name, err)
	}

	camBGP := s.cam.BindGroupProvider()
	if camBGP == nil {
		camBGP = bind_group_provider.NewBindGroupProvider(s.name + "_camera")
		s.cam.SetBindGroupProvider(camBGP)
	}
	if err := s.r.InitBindGroup(camBGP, cameraLayout, nil, nil); err != nil {
		return fmt.Errorf("scene %s: camera bind group: %w", s.name, err)
	}

	vertices, indices := sprite.UnitQuad()
	meshBGP := bind_group_provider.NewBindGroupProvider(s.name + "_quad")
	if err := s.r.InitMeshBuffers(meshBGP, sprite.MarshalVertices(vertices), sprite.MarshalIndices(indices), len(indices)); err != nil {
		return fmt.Errorf("scene %s: quad mesh: %w", s.name, err)
	}

	s.atlasBGP = atlasBGP
	s.meshBGP = meshBGP
	s.drawGroups[atlasGroup] = atlasBGP
	s.drawGroups[cameraGroup] = camBGP
	s.initialized = true

	common.Logger().Debug("scene initialized", "scene", s.name, "atlas", s.atlas.Rect.Size())
	return nil
}

// atlasBindings finds the texture and sampler bindings declared by the atlas provider annotations.
// Bindings 0 and 1 are assumed when the shader carries no provider roles.
func atlasBindings(s shader.Shader) (textureBinding, samplerBinding int) {
	textureBinding, samplerBinding = 0, 1
	for _, decl := range s.Declarations() {
		if decl.Type != shader.AnnotationTypeProvider || decl.Binding == nil || len(decl.Args) < 2 {
			continue
		}
		if decl.Args[0] != shader.AnnotationArgAtlas {
			continue
		}
		switch decl.Args[1] {
		case shader.AnnotationArgDiffuseTexture:
			textureBinding = *decl.Binding
		case shader.AnnotationArgDiffuseSampler:
			samplerBinding = *decl.Binding
		}
	}
	return textureBinding, samplerBinding
}

func (s *scene) AddBatch(b sprite.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batchBGPs[b]; exists {
		return
	}
	s.batches = append(s.batches, b)
	s.batchBGPs[b] = newBatchProvider(s.name, b)
}

func newBatchProvider(sceneName string, b sprite.Batch) bind_group_provider.BindGroupProvider {
	return bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_%s", sceneName, b.Label()))
}

func (s *scene) Batches() []sprite.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sprite.Batch, len(s.batches))
	copy(out, s.batches)
	return out
}

func (s *scene) PrepareFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	uniform := s.cam.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{
			Provider: s.drawGroups[cameraGroup],
			Binding:  0,
			Offset:   0,
			Data:     uniform.Marshal(),
		},
	})

	// Phase 1: snapshot and marshal dirty batches on the pool. A WaitGroup is the
	// per-frame barrier since the pool itself only drains on idle timeout.
	type upload struct {
		batch sprite.Batch
		bgp   bind_group_provider.BindGroupProvider
		data  []byte
		count int
	}
	uploads := make([]upload, len(s.batches))
	var wg sync.WaitGroup
	for i, b := range s.batches {
		if !b.Dirty() {
			continue
		}
		wg.Add(1)
		s.taskID++
		s.pool.SubmitTask(worker.Task{
			ID: s.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				instances := b.Snapshot()
				uploads[i] = upload{
					batch: b,
					bgp:   s.batchBGPs[b],
					data:  sprite.MarshalInstances(instances),
					count: len(instances),
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: serial GPU writes. A failed write re-flags its batch so the
	// snapshot is retried next frame.
	var errs []error
	for _, u := range uploads {
		if u.bgp == nil {
			continue
		}
		if err := s.r.WriteInstances(u.bgp, u.data, u.count); err != nil {
			u.batch.MarkDirty()
			errs = append(errs, fmt.Errorf("scene %s: batch %s: %w", s.name, u.batch.Label(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	for _, b := range s.batches {
		if !b.Visible() {
			continue
		}
		bgp := s.batchBGPs[b]
		if bgp.InstanceBuffer() == nil {
			continue
		}
		if err := s.r.DrawCall(s.pipelineKey, s.meshBGP, bgp, s.drawGroups); err != nil {
			return fmt.Errorf("scene %s: batch %s: %w", s.name, b.Label(), err)
		}
	}
	return nil
}

func (s *scene) Resize(width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.cam.Resize(width, height)
}

