package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewire/tracewire/pkg/runtimes"
)

func TestStaticResolverResolve(t *testing.T) {
	r := NewStaticResolver()

	tests := []struct {
		name   string
		region string
		rt     runtimes.Type
		want   string
	}{
		{
			name:   "node in us-east-1",
			region: "us-east-1",
			rt:     runtimes.Node,
			want:   "arn:aws:lambda:us-east-1:184161586896:layer:tracewire-node:42",
		},
		{
			name:   "typescript variant shares the node layer",
			region: "us-east-1",
			rt:     runtimes.NodeTS,
			want:   "arn:aws:lambda:us-east-1:184161586896:layer:tracewire-node:42",
		},
		{
			name:   "python in eu-west-1",
			region: "eu-west-1",
			rt:     runtimes.Python,
			want:   "arn:aws:lambda:eu-west-1:184161586896:layer:tracewire-python:38",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.region, tt.rt)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestStaticResolverUnsupported(t *testing.T) {
	r := NewStaticResolver()
	assert.Nil(t, r.Resolve("us-east-1", runtimes.Unsupported))
	assert.Nil(t, r.Resolve("", runtimes.Node))
}

func TestOwns(t *testing.T) {
	assert.True(t, Owns("arn:aws:lambda:us-east-1:184161586896:layer:tracewire-node:42"))
	assert.False(t, Owns("arn:aws:lambda:us-east-1:123456789012:layer:my-layer:1"))
}
