package runner

import "github.com/yaklabco/inlinemark/pkg/engine"

// FileOutcome is what happened to one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil when reading or converting failed.
	Result *engine.Result

	// OutputPath is set when the run has an output directory.
	OutputPath string

	// Written is false when OutputPath already held identical bytes.
	Written bool

	Error error
}

// Stats totals a run.
type Stats struct {
	FilesDiscovered int
	FilesRendered   int
	FilesWritten    int
	FilesUnchanged  int
	FilesErrored    int

	// NodesTotal sums the node count of every rendered document.
	NodesTotal int

	// BytesTotal sums the size of every rendered output.
	BytesTotal int
}

// Result holds per-file outcomes, in discovery order, and their totals.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(o FileOutcome) {
	r.Files = append(r.Files, o)

	switch {
	case o.Error != nil:
		r.Stats.FilesErrored++
		return
	case o.Result == nil:
		return
	}

	r.Stats.FilesRendered++
	r.Stats.NodesTotal += o.Result.Nodes()
	r.Stats.BytesTotal += len(o.Result.Output)

	switch {
	case o.OutputPath == "":
	case o.Written:
		r.Stats.FilesWritten++
	default:
		r.Stats.FilesUnchanged++
	}
}
