package protocol

// Depth limits to prevent stack overflow via deeply nested payloads.
const (
	// MaxNodeDepth limits the nesting depth of element trees.
	// 256 levels is sufficient for any reasonable page.
	MaxNodeDepth = 256

	// MaxJSONDepth limits raw JSON nesting. Each element uses two levels
	// (the element object and its props), and attribute values may nest
	// further.
	MaxJSONDepth = 4 * MaxNodeDepth
)

// DepthLimits allows configuring custom depth limits for decoding.
// Use DefaultDepthLimits() for sensible defaults.
type DepthLimits struct {
	// NodeDepth is the maximum element tree depth.
	NodeDepth int

	// JSONDepth is the maximum raw JSON nesting depth.
	JSONDepth int
}

// DefaultDepthLimits returns the default depth limits.
func DefaultDepthLimits() DepthLimits {
	return DepthLimits{
		NodeDepth: MaxNodeDepth,
		JSONDepth: MaxJSONDepth,
	}
}

// withDefaults fills unset limits.
func (l DepthLimits) withDefaults() DepthLimits {
	if l.NodeDepth <= 0 {
		l.NodeDepth = MaxNodeDepth
	}
	if l.JSONDepth <= 0 {
		l.JSONDepth = MaxJSONDepth
	}
	return l
}
