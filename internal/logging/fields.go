package logging

// Keys for structured log fields. Commands and the runner share these so the
// same value is always logged under the same name.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Render settings.
	FieldFormat     = "format"
	FieldExtensions = "extensions"
	FieldSpoiler    = "spoiler_style"
	FieldJobs       = "jobs"
	FieldOutDir     = "out_dir"

	// Run counters.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesFailed     = "files_failed"
	FieldNodes           = "nodes"
	FieldDuration        = "duration"

	// Build metadata.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
