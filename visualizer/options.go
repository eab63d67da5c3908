package visualizer

// Options configures the visualization output.
type Options struct {
	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// ShowLabels writes transition labels on the arrows
	ShowLabels bool

	// HighlightPath highlights a specific state path through the diagram
	HighlightPath []string

	// FinalStates are drawn with an exit marker. Without them every
	// terminal node gets one.
	FinalStates []string

	// Fenced wraps the diagram in a ```mermaid code block
	Fenced bool
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		Direction:  "TD",
		ShowLabels: true,
		Fenced:     true,
	}
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithShowLabels enables/disables transition labels.
func (o Options) WithShowLabels(show bool) Options {
	o.ShowLabels = show

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}

// WithFinalStates sets the states drawn as final.
func (o Options) WithFinalStates(states []string) Options {
	o.FinalStates = states

	return o
}

// WithFenced enables/disables the markdown code fence.
func (o Options) WithFenced(fenced bool) Options {
	o.Fenced = fenced

	return o
}
