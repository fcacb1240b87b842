package wrapper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tracewire/tracewire/pkg/runtimes"
)

// EnvOriginalHandler is the environment variable the redirected handler
// delegates through. The pipeline records the original handler path
// here; the wrapper reads it at invocation time.
const EnvOriginalHandler = "TRACEWIRE_ORIGINAL_HANDLER"

// Layer-provided wrapper entry points, by runtime family. When a layer
// is attached the wrapper ships inside it, mounted under /opt.
var layerHandlers = map[runtimes.Type]string{
	runtimes.Node:   "/opt/nodejs/node_modules/tracewire-lambda/handler.handler",
	runtimes.NodeES: "/opt/nodejs/node_modules/tracewire-lambda/handler.mhandler",
	runtimes.NodeTS: "/opt/nodejs/node_modules/tracewire-lambda/handler.handler",
	runtimes.Python: "tracewire_lambda.handler.handler",
	runtimes.Ruby:   "tracewire_lambda/handler.Tracewire::Handler.call",
}

// shimFiles describes the wrapper source materialized into the
// deployment artifact when no layer carries it.
var shimFiles = map[runtimes.Type]struct {
	file    string
	handler string
	source  string
}{
	runtimes.Node: {
		file:    "tracewire_handler.js",
		handler: "tracewire_handler.handler",
		source: `const { wrap } = require("tracewire-lambda");
const original = process.env.` + EnvOriginalHandler + `;
const [mod, fn] = original.split(/\.(?=[^.]+$)/);
exports.handler = wrap(require("./" + mod)[fn]);
`,
	},
	runtimes.NodeES: {
		file:    "tracewire_handler.mjs",
		handler: "tracewire_handler.handler",
		source: `import { wrap } from "tracewire-lambda";
const original = process.env.` + EnvOriginalHandler + `;
const [mod, fn] = original.split(/\.(?=[^.]+$)/);
const target = await import("./" + mod + ".mjs");
export const handler = wrap(target[fn]);
`,
	},
	runtimes.NodeTS: {
		file:    "tracewire_handler.js",
		handler: "tracewire_handler.handler",
		source: `const { wrap } = require("tracewire-lambda");
const original = process.env.` + EnvOriginalHandler + `;
const [mod, fn] = original.split(/\.(?=[^.]+$)/);
exports.handler = wrap(require("./" + mod)[fn]);
`,
	},
	runtimes.Python: {
		file:    "tracewire_handler.py",
		handler: "tracewire_handler.handler",
		source: `import importlib
import os

from tracewire_lambda import wrap

_mod, _fn = os.environ["` + EnvOriginalHandler + `"].rsplit(".", 1)
handler = wrap(getattr(importlib.import_module(_mod.replace("/", ".")), _fn))
`,
	},
}

// FileInjector computes wrapper entry points and, when layers are not
// attached, materializes the wrapper shim into the deployment artifact.
type FileInjector struct {
	dir string
}

// NewFileInjector creates an injector writing shims under dir.
func NewFileInjector(dir string) *FileInjector {
	return &FileInjector{dir: dir}
}

// WrapperHandler returns the handler path a function should be
// redirected to. ok is false when the runtime has no wrapper (the
// function is left untouched).
func (i *FileInjector) WrapperHandler(rt runtimes.Runtime, layersPresent bool) (string, bool) {
	if layersPresent {
		h, ok := layerHandlers[rt.Type]
		return h, ok
	}
	shim, ok := shimFiles[rt.Type]
	if !ok {
		return "", false
	}
	return shim.handler, true
}

// EnsureWrapper writes the wrapper shim for the runtime into the
// injector's directory. Safe to call repeatedly; the shim content is
// deterministic so a rewrite is a no-op in effect.
func (i *FileInjector) EnsureWrapper(rt runtimes.Runtime) error {
	shim, ok := shimFiles[rt.Type]
	if !ok {
		return fmt.Errorf("no wrapper shim for runtime %q", rt.Raw)
	}
	if err := os.MkdirAll(i.dir, 0755); err != nil {
		return fmt.Errorf("failed to create wrapper directory: %w", err)
	}
	path := filepath.Join(i.dir, shim.file)
	if err := os.WriteFile(path, []byte(shim.source), 0644); err != nil {
		return fmt.Errorf("failed to write wrapper shim: %w", err)
	}
	return nil
}

// Clean removes the materialized wrapper directory.
func (i *FileInjector) Clean() error {
	return os.RemoveAll(i.dir)
}
