package pagination

import "fmt"

// DiagnosticKind classifies a non-fatal assembly finding
type DiagnosticKind int

const (
	// OversizedAtomicBlock: an atomic block is taller than the content height
	// and overflows its page.
	OversizedAtomicBlock DiagnosticKind = iota + 1
	// OversizedFloatableBlock: a floatable block is taller than the content
	// height; the renderer's reflow is expected to continue it.
	OversizedFloatableBlock
)

func (k DiagnosticKind) String() string {
	switch k {
	case OversizedAtomicBlock:
		return "OversizedAtomicBlock"
	case OversizedFloatableBlock:
		return "OversizedFloatableBlock"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// MarshalText lets diagnostics serialize with readable kinds
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is reported alongside the pages, never instead of them
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	BlockID   string         `json:"blockId"`
	PageIndex int            `json:"page"`
	Height    float64        `json:"height"`
	Limit     float64        `json:"limit"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: block %q on page %d is %.2fpt tall, content height is %.2fpt",
		d.Kind, d.BlockID, d.PageIndex, d.Height, d.Limit)
}
