package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracewire/tracewire/pkg/manifest"
)

func TestApplyExclusions(t *testing.T) {
	h := NewHook()

	m := &manifest.ServiceManifest{
		Service: "checkout",
		Custom: manifest.Custom{
			Esbuild: &manifest.EsbuildConfig{Bundle: true, External: []string{"aws-sdk"}},
		},
	}

	assert.True(t, h.Detected(m))
	assert.True(t, h.ApplyExclusions(m))
	assert.Equal(t, []string{"aws-sdk", InstrumentPackage}, m.Custom.Esbuild.External)

	// Second application changes nothing
	assert.False(t, h.ApplyExclusions(m))
	assert.Equal(t, []string{"aws-sdk", InstrumentPackage}, m.Custom.Esbuild.External)
}

func TestApplyExclusionsNoBundler(t *testing.T) {
	h := NewHook()
	m := &manifest.ServiceManifest{Service: "checkout"}

	assert.False(t, h.Detected(m))
	assert.False(t, h.ApplyExclusions(m))
	assert.Nil(t, m.Custom.Esbuild)
}
