package software

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sweeper/common"
	"github.com/Carmen-Shannon/oxy-sweeper/engine/sprite"
)

// defaultBandHeight is the number of framebuffer rows handed to one rasterization task.
const defaultBandHeight = 32

// rasterizer is the implementation of the Rasterizer interface.
type rasterizer struct {
	mu *sync.Mutex

	target     *image.RGBA
	clearColor color.RGBA
	bandHeight int

	pool    worker.DynamicWorkerPool
	workers int
	taskID  int
}

// Rasterizer draws sprite batches into an in-memory framebuffer with the same vertex and fragment
// stages the GPU pipeline runs. Draws land in call order and later draws replace earlier ones,
// matching a blend-disabled pipeline with no depth attachment.
type Rasterizer interface {
	// Clear fills the whole framebuffer with the clear color.
	Clear()

	// Draw rasterizes one instanced draw of the mesh.
	//
	// Parameters:
	//   - camera: the column-major scaling matrix bound at group 1
	//   - tex: the diffuse texture bound at group 0 binding 0
	//   - s: the sampler bound at group 0 binding 1
	//   - vertices: the mesh vertices (slot 0)
	//   - indices: the triangle list indices into vertices
	//   - instances: the per-instance data (slot 1), drawn in order
	Draw(camera [16]float32, tex *image.RGBA, s sprite.Sampler, vertices []sprite.GPUVertex, indices []uint32, instances []sprite.GPUInstance)

	// Image returns the framebuffer. The returned image is owned by the rasterizer and is
	// overwritten by later draws.
	//
	// Returns:
	//   - *image.RGBA: the framebuffer
	Image() *image.RGBA

	// Resize replaces the framebuffer with a cleared one of the given size.
	// Sizes below 1 are raised to 1.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	Resize(width, height int)
}

var _ Rasterizer = &rasterizer{}

// NewRasterizer creates a Rasterizer with a cleared framebuffer of the given size.
//
// Parameters:
//   - width: the framebuffer width in pixels
//   - height: the framebuffer height in pixels
//   - options: functional options to configure the rasterizer
//
// Returns:
//   - Rasterizer: the new rasterizer
func NewRasterizer(width, height int, options ...RasterizerBuilderOption) Rasterizer {
	r := &rasterizer{
		mu:         &sync.Mutex{},
		clearColor: color.RGBA{A: 255},
		bandHeight: defaultBandHeight,
		workers:    max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(r)
	}
	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	r.target = image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	r.clearLocked()
	return r
}

func (r *rasterizer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *rasterizer) clearLocked() {
	c := r.clearColor
	pix := r.target.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

func (r *rasterizer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

func (r *rasterizer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	r.clearLocked()
}

func (r *rasterizer) Draw(camera [16]float32, tex *image.RGBA, s sprite.Sampler, vertices []sprite.GPUVertex, indices []uint32, instances []sprite.GPUInstance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tex == nil || tex.Rect.Empty() {
		return
	}

	width := r.target.Rect.Dx()
	height := r.target.Rect.Dy()
	tris := assemble(camera, vertices, indices, instances, width, height)
	if len(tris) == 0 {
		return
	}

	// Bands own disjoint row ranges, so tasks never share a pixel and each
	// band still walks the triangles in submission order.
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += r.bandHeight {
		y1 := min(y0+r.bandHeight, height)
		wg.Add(1)
		band := [2]int{y0, y1}
		r.taskID++
		r.pool.SubmitTask(worker.Task{
			ID: r.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := range tris {
					rasterizeBand(r.target, &tris[i], band[0], band[1], tex, s)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	common.Logger().Debug("software draw", "triangles", len(tris), "instances", len(instances))
}

// screenVertex is a vertex after the vertex stage and viewport transform.
type screenVertex struct {
	x, y float64
	uv   [2]float32
}

// triangle is a non-degenerate screen-space triangle wound so that its edge functions are positive inside.
type triangle struct {
	v     [3]screenVertex
	area  float64
	minX  int
	maxX  int
	minY  int
	maxY  int
	edges [3]edge
}

// edge holds the coefficients of one edge function and whether the edge owns pixels lying exactly on it.
type edge struct {
	ax, ay  float64
	dx, dy  float64
	topLeft bool
}

func (e edge) eval(px, py float64) float64 {
	return e.dx*(py-e.ay) - e.dy*(px-e.ax)
}

func (e edge) covers(w float64) bool {
	return w > 0 || (w == 0 && e.topLeft)
}

// assemble runs the vertex stage for every instance and returns the screen-space triangles in draw order.
// Degenerate triangles, such as those from a zero scale, are dropped.
func assemble(camera [16]float32, vertices []sprite.GPUVertex, indices []uint32, instances []sprite.GPUInstance, width, height int) []triangle {
	tris := make([]triangle, 0, len(instances)*len(indices)/3)
	out := make([]screenVertex, len(vertices))

	for _, inst := range instances {
		for i, v := range vertices {
			vo := sprite.VertexStage(camera, v, inst)
			w := float64(vo.ClipPosition[3])
			if w == 0 {
				w = 1
			}
			ndcX := float64(vo.ClipPosition[0]) / w
			ndcY := float64(vo.ClipPosition[1]) / w
			out[i] = screenVertex{
				x:  (ndcX + 1) * 0.5 * float64(width),
				y:  (1 - ndcY) * 0.5 * float64(height),
				uv: vo.TexCoords,
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if int(a) >= len(out) || int(b) >= len(out) || int(c) >= len(out) {
				continue
			}
			if t, ok := setupTriangle(out[a], out[b], out[c], width, height); ok {
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// setupTriangle computes the edge functions and clipped bounding box of a triangle.
// Culling is off, so clockwise and counter-clockwise triangles are both accepted.
func setupTriangle(v0, v1, v2 screenVertex, width, height int) (triangle, bool) {
	area := (v1.x-v0.x)*(v2.y-v0.y) - (v1.y-v0.y)*(v2.x-v0.x)
	if area == 0 || math.IsNaN(area) {
		return triangle{}, false
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	t := triangle{v: [3]screenVertex{v0, v1, v2}, area: area}
	// edges[i] is opposite vertex i, so its value at p is that vertex's barycentric weight.
	t.edges[0] = newEdge(v1, v2)
	t.edges[1] = newEdge(v2, v0)
	t.edges[2] = newEdge(v0, v1)

	minX := math.Min(v0.x, math.Min(v1.x, v2.x))
	maxX := math.Max(v0.x, math.Max(v1.x, v2.x))
	minY := math.Min(v0.y, math.Min(v1.y, v2.y))
	maxY := math.Max(v0.y, math.Max(v1.y, v2.y))

	t.minX = common.Clamp(int(math.Floor(minX)), 0, width)
	t.maxX = common.Clamp(int(math.Ceil(maxX)), 0, width)
	t.minY = common.Clamp(int(math.Floor(minY)), 0, height)
	t.maxY = common.Clamp(int(math.Ceil(maxY)), 0, height)
	if t.minX >= t.maxX || t.minY >= t.maxY {
		return triangle{}, false
	}
	return t, true
}

func newEdge(a, b screenVertex) edge {
	dx := b.x - a.x
	dy := b.y - a.y
	return edge{
		ax:      a.x,
		ay:      a.y,
		dx:      dx,
		dy:      dy,
		topLeft: dy < 0 || (dy == 0 && dx > 0),
	}
}

// rasterizeBand shades the pixels of t whose centers fall inside it and within rows [y0, y1).
func rasterizeBand(target *image.RGBA, t *triangle, y0, y1 int, tex *image.RGBA, s sprite.Sampler) {
	rowStart := max(t.minY, y0)
	rowEnd := min(t.maxY, y1)
	for y := rowStart; y < rowEnd; y++ {
		py := float64(y) + 0.5
		for x := t.minX; x < t.maxX; x++ {
			px := float64(x) + 0.5

			w0 := t.edges[0].eval(px, py)
			if !t.edges[0].covers(w0) {
				continue
			}
			w1 := t.edges[1].eval(px, py)
			if !t.edges[1].covers(w1) {
				continue
			}
			w2 := t.edges[2].eval(px, py)
			if !t.edges[2].covers(w2) {
				continue
			}

			l0 := float32(w0 / t.area)
			l1 := float32(w1 / t.area)
			l2 := float32(w2 / t.area)
			uv := [2]float32{
				l0*t.v[0].uv[0] + l1*t.v[1].uv[0] + l2*t.v[2].uv[0],
				l0*t.v[0].uv[1] + l1*t.v[1].uv[1] + l2*t.v[2].uv[1],
			}

			target.SetRGBA(target.Rect.Min.X+x, target.Rect.Min.Y+y, sprite.FragmentStage(tex, s, uv))
		}
	}
}
