package runtimes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		runtime    string
		moduleType string
		want       Type
		wantRaw    string
	}{
		{
			name:    "node generic",
			runtime: "nodejs18.x",
			want:    Node,
			wantRaw: "nodejs18.x",
		},
		{
			name:    "node older version",
			runtime: "nodejs14.x",
			want:    Node,
			wantRaw: "nodejs14.x",
		},
		{
			name:       "node with es6 hint",
			runtime:    "nodejs18.x",
			moduleType: "es6",
			want:       NodeES,
			wantRaw:    "nodejs18.x",
		},
		{
			name:       "node with typescript hint",
			runtime:    "nodejs20.x",
			moduleType: "typescript",
			want:       NodeTS,
			wantRaw:    "nodejs20.x",
		},
		{
			name:       "node hint keeps generic node",
			runtime:    "nodejs20.x",
			moduleType: "node",
			want:       Node,
			wantRaw:    "nodejs20.x",
		},
		{
			name:    "python",
			runtime: "python3.11",
			want:    Python,
			wantRaw: "python3.11",
		},
		{
			name:       "hint ignored for non-node family",
			runtime:    "python3.9",
			moduleType: "typescript",
			want:       Python,
			wantRaw:    "python3.9",
		},
		{
			name:    "ruby",
			runtime: "ruby3.2",
			want:    Ruby,
			wantRaw: "ruby3.2",
		},
		{
			name:    "java",
			runtime: "java17",
			want:    Java,
			wantRaw: "java17",
		},
		{
			name:    "dotnet",
			runtime: "dotnet8",
			want:    DotNet,
			wantRaw: "dotnet8",
		},
		{
			name:    "go is unsupported",
			runtime: "go1.x",
			want:    Unsupported,
			wantRaw: "go1.x",
		},
		{
			name:    "custom runtime is unsupported",
			runtime: "provided.al2023",
			want:    Unsupported,
			wantRaw: "provided.al2023",
		},
		{
			name:    "absent runtime is unsupported with undefined raw",
			runtime: "",
			want:    Unsupported,
			wantRaw: "undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.runtime, tt.moduleType)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.wantRaw, got.Raw)

			// Classification is pure: the same inputs always yield
			// the same result.
			again := Classify(tt.runtime, tt.moduleType)
			assert.Equal(t, got, again)
		})
	}
}

func TestRuntimeSupported(t *testing.T) {
	assert.True(t, Classify("nodejs18.x", "").Supported())
	assert.True(t, Classify("python3.11", "").Supported())
	assert.False(t, Classify("go1.x", "").Supported())
	assert.False(t, Classify("", "").Supported())
}

func TestRuntimeNodeFamily(t *testing.T) {
	assert.True(t, Classify("nodejs18.x", "").NodeFamily())
	assert.True(t, Classify("nodejs18.x", "es6").NodeFamily())
	assert.True(t, Classify("nodejs18.x", "typescript").NodeFamily())
	assert.False(t, Classify("python3.11", "").NodeFamily())
	assert.False(t, Classify("go1.x", "").NodeFamily())
}
