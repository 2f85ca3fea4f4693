package inline

// Options is the set of behavioural toggles read by the parser, extensions
// and renderers.
type Options uint32

// Option bits.
const (
	// OptSourcePos emits source positions in structural output.
	OptSourcePos Options = 1 << iota

	// OptHardBreaks renders soft breaks as hard breaks.
	OptHardBreaks

	// OptNoBreaks renders soft breaks as spaces.
	OptNoBreaks

	// OptUnsafe passes raw HTML through instead of omitting it.
	OptUnsafe

	// OptSpoilerRedditStyle selects >!spoiler!< instead of ||spoiler||.
	OptSpoilerRedditStyle
)

// Has reports whether every bit of flag is set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}
