package manifest

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema returns the JSON Schema describing plugin.json. Host runtimes and
// editors can use it to validate manifests without this toolchain.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.Reflect(&Manifest{})
}

// SchemaJSON renders the manifest schema as indented JSON.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal manifest schema")
	}
	return string(data), nil
}
