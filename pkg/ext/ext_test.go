package ext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

func TestBuiltins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"spoiler", "superscript", "strikethrough"}, ext.Builtins())

	for _, name := range ext.Builtins() {
		assert.True(t, ext.IsBuiltin(name), name)
		assert.NotEmpty(t, ext.Describe(name), name)

		e, err := ext.New(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name())
	}

	assert.False(t, ext.IsBuiltin("emoji"))
	assert.Empty(t, ext.Describe("emoji"))
}

func TestNew_Unknown(t *testing.T) {
	t.Parallel()

	_, err := ext.New("emoji")
	require.ErrorIs(t, err, ext.ErrUnknownExtension)
	assert.Contains(t, err.Error(), `"emoji"`)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	host := inline.NewHost()
	require.NoError(t, ext.Register(host, "superscript", "spoiler", "superscript"))

	regs := host.Extensions()
	require.Len(t, regs, 2, "repeated names register once")
	assert.Equal(t, "superscript", regs[0].Handle.Name)
	assert.Equal(t, "spoiler", regs[1].Handle.Name)
	assert.Equal(t, mdast.FirstExtensionKind, regs[0].Handle.Kind)
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()

	host := inline.NewHost()
	require.ErrorIs(t, ext.Register(host, "spoiler", "emoji"), ext.ErrUnknownExtension)

	frozen := inline.NewHost()
	frozen.Freeze()
	require.ErrorIs(t, ext.Register(frozen, "spoiler"), inline.ErrHostFrozen)

	taken := inline.NewHost()
	require.NoError(t, ext.Register(taken, "spoiler"))
	require.ErrorIs(t, ext.Register(taken, "spoiler"), inline.ErrDuplicateExtension)
}

func TestNewHost(t *testing.T) {
	t.Parallel()

	host, err := ext.NewHost(nil)
	require.NoError(t, err)

	var names []string
	for _, reg := range host.Extensions() {
		names = append(names, reg.Handle.Name)
	}
	assert.Equal(t, ext.Builtins(), names)
	assert.False(t, host.Frozen())

	// Spoiler and superscript resolve with emphasis; strikethrough waits.
	for name, want := range map[string]bool{"spoiler": true, "superscript": true, "strikethrough": false} {
		reg, ok := host.ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, reg.EmphasisCompatible, name)
	}

	_, err = ext.NewHost([]string{"nope"}, inline.WithKindLimit(4))
	require.ErrorIs(t, err, ext.ErrUnknownExtension)
}
