package wrapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewire/tracewire/pkg/runtimes"
)

func TestWrapperHandlerWithLayers(t *testing.T) {
	inj := NewFileInjector(t.TempDir())

	h, ok := inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Node, Raw: "nodejs18.x"}, true)
	require.True(t, ok)
	assert.Equal(t, "/opt/nodejs/node_modules/tracewire-lambda/handler.handler", h)

	h, ok = inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Python, Raw: "python3.11"}, true)
	require.True(t, ok)
	assert.Equal(t, "tracewire_lambda.handler.handler", h)
}

func TestWrapperHandlerWithoutLayers(t *testing.T) {
	inj := NewFileInjector(t.TempDir())

	h, ok := inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Node, Raw: "nodejs18.x"}, false)
	require.True(t, ok)
	assert.Equal(t, "tracewire_handler.handler", h)
}

func TestWrapperHandlerUnsupported(t *testing.T) {
	inj := NewFileInjector(t.TempDir())

	_, ok := inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Unsupported, Raw: "go1.x"}, true)
	assert.False(t, ok)
	_, ok = inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Unsupported, Raw: "go1.x"}, false)
	assert.False(t, ok)

	// Java has a layer wrapper story but no materialized shim
	_, ok = inj.WrapperHandler(runtimes.Runtime{Type: runtimes.Java, Raw: "java17"}, false)
	assert.False(t, ok)
}

func TestEnsureWrapper(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shims")
	inj := NewFileInjector(dir)

	rt := runtimes.Runtime{Type: runtimes.Python, Raw: "python3.11"}
	require.NoError(t, inj.EnsureWrapper(rt))

	data, err := os.ReadFile(filepath.Join(dir, "tracewire_handler.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), EnvOriginalHandler)

	// Repeat writes are harmless
	require.NoError(t, inj.EnsureWrapper(rt))

	err = inj.EnsureWrapper(runtimes.Runtime{Type: runtimes.Unsupported, Raw: "go1.x"})
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shims")
	inj := NewFileInjector(dir)
	require.NoError(t, inj.EnsureWrapper(runtimes.Runtime{Type: runtimes.Node, Raw: "nodejs18.x"}))

	require.NoError(t, inj.Clean())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
