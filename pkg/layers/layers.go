package layers

import (
	"fmt"
	"strings"

	"github.com/tracewire/tracewire/pkg/runtimes"
)

// Resolver maps a (region, runtime) pair to the instrumentation layer
// references to attach. An empty result means no layer exists for the
// pair.
type Resolver interface {
	Resolve(region string, rt runtimes.Type) []string
}

// layerAccount is the account publishing the tracewire layers.
const layerAccount = "184161586896"

// layerNames maps each supported runtime family to its published layer
// name and current version. All Node variants share one layer; the
// es6/typescript flavors differ only in wrapper entry point, not layer
// contents.
var layerNames = map[runtimes.Type]struct {
	name    string
	version int
}{
	runtimes.Node:   {"tracewire-node", 42},
	runtimes.NodeES: {"tracewire-node", 42},
	runtimes.NodeTS: {"tracewire-node", 42},
	runtimes.Python: {"tracewire-python", 38},
	runtimes.Ruby:   {"tracewire-ruby", 21},
	runtimes.Java:   {"tracewire-java", 15},
	runtimes.DotNet: {"tracewire-dotnet", 11},
}

// StaticResolver resolves layer ARNs from the published layer table,
// interpolating the region into the ARN.
type StaticResolver struct{}

// NewStaticResolver returns the default layer resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

// Resolve returns the layer ARNs for the given region and runtime, or
// nil when the runtime has no published layer.
func (r *StaticResolver) Resolve(region string, rt runtimes.Type) []string {
	if region == "" {
		return nil
	}
	entry, ok := layerNames[rt]
	if !ok {
		return nil
	}
	return []string{
		fmt.Sprintf("arn:aws:lambda:%s:%s:layer:%s:%d", region, layerAccount, entry.name, entry.version),
	}
}

// Owns reports whether an ARN refers to a tracewire-published layer.
// The clean operation uses it to strip previously attached layers.
func Owns(arn string) bool {
	return strings.Contains(arn, fmt.Sprintf(":%s:layer:tracewire-", layerAccount))
}
