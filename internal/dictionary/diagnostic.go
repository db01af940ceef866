package dictionary

// DiagnosticKind classifies a non-fatal compilation finding.
type DiagnosticKind string

const (
	// DiagOutputConflict: two entries render to the same stroke string; the
	// later one wins.
	DiagOutputConflict DiagnosticKind = "output_conflict"
	// DiagMixinConflict: a mixin name could not be (re)registered.
	DiagMixinConflict DiagnosticKind = "mixin_conflict"
	// DiagEntryError: a failing definition was skipped.
	DiagEntryError DiagnosticKind = "entry_error"
)

// Diagnostic is one finding together with the entry it originates from.
type Diagnostic struct {
	Kind        DiagnosticKind `json:"kind"`
	Translation string         `json:"translation"`
	Definition  string         `json:"definition,omitempty"`
	Strokes     string         `json:"strokes,omitempty"`
	Message     string         `json:"message"`
}
