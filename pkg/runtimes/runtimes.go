package runtimes

import "strings"

// Type enumerates the managed-runtime families tracewire knows how to
// instrument. Unsupported is the sentinel for everything else.
type Type string

const (
	Node   Type = "node"
	NodeES Type = "node-es"
	NodeTS Type = "node-ts"
	Python Type = "python"
	Ruby   Type = "ruby"
	Java   Type = "java"
	DotNet Type = "dotnet"

	Unsupported Type = "unsupported"
)

// Module-type hints accepted for Node-family runtimes.
const (
	ModuleTypeNode       = "node"
	ModuleTypeES6        = "es6"
	ModuleTypeTypeScript = "typescript"
)

// Runtime is the classification result for one function. Raw keeps the
// declared runtime string ("undefined" when none was declared) so that
// diagnostics can name what was actually seen.
type Runtime struct {
	Type Type
	Raw  string
}

// Supported reports whether the runtime belongs to a family tracewire
// can attach layers and wrappers to.
func (r Runtime) Supported() bool {
	return r.Type != Unsupported
}

// NodeFamily reports whether the runtime is any of the Node variants.
func (r Runtime) NodeFamily() bool {
	return r.Type == Node || r.Type == NodeES || r.Type == NodeTS
}

// familyPrefixes maps the leading portion of a managed runtime
// identifier (e.g. "nodejs18.x", "python3.11") to its family.
var familyPrefixes = []struct {
	prefix string
	typ    Type
}{
	{"nodejs", Node},
	{"python", Python},
	{"ruby", Ruby},
	{"java", Java},
	{"dotnet", DotNet},
}

// Classify maps a declared runtime string and an optional module-type
// hint to exactly one Runtime. The hint only applies to Node-family
// runtimes, where it encodes build-tooling intent the runtime string
// cannot: "es6" selects the ES-module variant and "typescript" the
// TypeScript variant. Absent or unrecognized runtimes classify as
// Unsupported with the raw string retained.
func Classify(runtime, moduleType string) Runtime {
	if runtime == "" {
		return Runtime{Type: Unsupported, Raw: "undefined"}
	}

	for _, f := range familyPrefixes {
		if !strings.HasPrefix(runtime, f.prefix) {
			continue
		}
		typ := f.typ
		if typ == Node {
			switch moduleType {
			case ModuleTypeES6:
				typ = NodeES
			case ModuleTypeTypeScript:
				typ = NodeTS
			}
		}
		return Runtime{Type: typ, Raw: runtime}
	}

	return Runtime{Type: Unsupported, Raw: runtime}
}
