package mesh

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryService is a Service that keeps every mesh in memory. It is safe for
// concurrent use.
type MemoryService struct {
	mu     sync.RWMutex
	meshes map[Handle]*Grid
}

// NewMemoryService returns an empty MemoryService.
func NewMemoryService() *MemoryService {
	return &MemoryService{meshes: make(map[Handle]*Grid)}
}

// CreateGrid builds a new flat grid; existing meshes are left untouched.
func (s *MemoryService) CreateGrid(ctx context.Context, width, height float64, colSubdiv, rowSubdiv int) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if colSubdiv < 0 || rowSubdiv < 0 {
		return "", fmt.Errorf("invalid subdivisions %dx%d", colSubdiv, rowSubdiv)
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid plane size %gx%g", width, height)
	}

	h := Handle("plane-" + uuid.NewString())
	g := NewGrid(width, height, colSubdiv, rowSubdiv)

	s.mu.Lock()
	s.meshes[h] = g
	s.mu.Unlock()
	return h, nil
}

// ListVertices returns the handles of every vertex of h in row-major order.
func (s *MemoryService) ListVertices(ctx context.Context, h Handle) ([]VertexHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	g, ok := s.meshes[h]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown mesh %q", h)
	}

	out := make([]VertexHandle, len(g.Vertices))
	for i := range out {
		out[i] = VertexHandle{Mesh: h, Index: i}
	}
	return out, nil
}

// DisplaceVertex moves one vertex along axis.
func (s *MemoryService) DisplaceVertex(ctx context.Context, v VertexHandle, axis Axis, delta float64, relative bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !axis.Valid() {
		return fmt.Errorf("invalid axis %v", axis)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.meshes[v.Mesh]
	if !ok {
		return fmt.Errorf("unknown mesh %q", v.Mesh)
	}
	if v.Index < 0 || v.Index >= len(g.Vertices) {
		return fmt.Errorf("vertex %s out of range [0,%d)", v, len(g.Vertices))
	}
	g.Vertices[v.Index] = move(g.Vertices[v.Index], axis, delta, relative)
	return nil
}

// Mesh returns the grid behind h. The returned value is shared with the
// service; callers must not modify it while displacements are in flight.
func (s *MemoryService) Mesh(h Handle) (*Grid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.meshes[h]
	return g, ok
}

// Len returns the number of meshes created so far.
func (s *MemoryService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}
