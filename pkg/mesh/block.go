package mesh

// Fit selects how a block reports the size it would grow to when asked to
// cover an index.
type Fit int

const (
	// FitExact reports the true size after insertion.
	FitExact Fit = iota

	// FitLegacy reproduces the sizing of the original mconv64 tool, which
	// reports one less than the true size when growing a block backward.
	// Use it only to reproduce that tool's output byte for byte.
	FitLegacy
)

// String returns the config name of the fit mode.
func (f Fit) String() string {
	switch f {
	case FitExact:
		return "exact"
	case FitLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// ParseFit parses a config name into a Fit.
func ParseFit(s string) (Fit, bool) {
	switch s {
	case "", "exact":
		return FitExact, true
	case "legacy":
		return FitLegacy, true
	default:
		return FitExact, false
	}
}

// VertexBlock is a contiguous range [Offset, Offset+N) of global vertex
// indices, uploaded by one load instruction.
type VertexBlock struct {
	Offset uint32
	N      uint32
}

// Contains reports whether index lies inside the block.
func (b VertexBlock) Contains(index uint32) bool {
	return index >= b.Offset && index < b.Offset+b.N
}

// End returns one past the last index of the block.
func (b VertexBlock) End() uint32 {
	return b.Offset + b.N
}

// WouldBeSize returns the block size after inserting index.
func (b VertexBlock) WouldBeSize(index uint32) uint32 {
	switch {
	case index < b.Offset:
		return b.N + (b.Offset - index)
	case index >= b.Offset+b.N:
		return index - b.Offset + 1
	default:
		return b.N
	}
}

// legacySize is max(up, down, n) with up = index-offset+1 and down = n-up.
func (b VertexBlock) legacySize(index uint32) uint32 {
	up := int32(index) - int32(b.Offset) + 1
	down := int32(b.N) - up
	return uint32(max(up, down, int32(b.N)))
}

func (b VertexBlock) sizeFor(index uint32, fit Fit) uint32 {
	if fit == FitLegacy {
		return b.legacySize(index)
	}
	return b.WouldBeSize(index)
}

// Insert grows the block so that it covers index.
func (b *VertexBlock) Insert(index uint32) {
	switch {
	case index < b.Offset:
		b.N += b.Offset - index
		b.Offset = index
	case index >= b.Offset+b.N:
		b.N = index - b.Offset + 1
	}
}
