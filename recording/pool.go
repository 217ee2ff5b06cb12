package recording

import "github.com/gogpu/gg"

// ResourcePool stores the paths and brushes referenced by commands.
// Paths are cloned on insert so a Recording never shares state with the
// Recorder that produced it. Identical solid brushes are stored once.
//
// ResourcePool is not safe for concurrent mutation.
type ResourcePool struct {
	paths   []*gg.Path
	brushes []Brush
	solid   map[gg.RGBA]BrushRef
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		paths:   make([]*gg.Path, 0, 64),
		brushes: make([]Brush, 0, 8),
		solid:   make(map[gg.RGBA]BrushRef),
	}
}

// AddPath adds a clone of path to the pool and returns its reference.
func (p *ResourcePool) AddPath(path *gg.Path) PathRef {
	var cloned *gg.Path
	if path != nil {
		cloned = path.Clone()
	}
	p.paths = append(p.paths, cloned)
	// #nosec G115 -- pool size is bounded by the figure, far below uint32 max
	return PathRef(uint32(len(p.paths) - 1))
}

// GetPath returns the path for ref, or nil if ref is out of range.
func (p *ResourcePool) GetPath(ref PathRef) *gg.Path {
	if int(ref) >= len(p.paths) {
		return nil
	}
	return p.paths[ref]
}

// PathCount returns the number of paths in the pool.
func (p *ResourcePool) PathCount() int {
	return len(p.paths)
}

// AddBrush adds a brush to the pool and returns its reference.
func (p *ResourcePool) AddBrush(brush Brush) BrushRef {
	if sb, ok := brush.(SolidBrush); ok {
		if ref, seen := p.solid[sb.Color]; seen {
			return ref
		}
		// #nosec G115 -- see AddPath
		ref := BrushRef(uint32(len(p.brushes)))
		p.solid[sb.Color] = ref
		p.brushes = append(p.brushes, brush)
		return ref
	}
	p.brushes = append(p.brushes, brush)
	// #nosec G115 -- see AddPath
	return BrushRef(uint32(len(p.brushes) - 1))
}

// GetBrush returns the brush for ref, or nil if ref is out of range.
func (p *ResourcePool) GetBrush(ref BrushRef) Brush {
	if int(ref) >= len(p.brushes) {
		return nil
	}
	return p.brushes[ref]
}

// BrushCount returns the number of distinct brushes in the pool.
func (p *ResourcePool) BrushCount() int {
	return len(p.brushes)
}
