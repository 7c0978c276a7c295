package aiprofile

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema builds the JSON schema describing the profile file format. Authoring
// tools validate profiles against it before they ever reach the engine.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.ReflectFromType(reflect.TypeOf(Profile{}))
	schema.Version = jsonschema.Version
	schema.Title = "AI Behavior Profile"
	schema.Description = "Versioned difficulty tiers consumed by scripted opponents."
	return schema
}

// SchemaJSON renders the profile schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("aiprofile: marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
