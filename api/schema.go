package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	createSessionSchema = mustCompileSchema("create_session.schema.json")
	joinSchema          = mustCompileSchema("join.schema.json")
	placeSchema         = mustCompileSchema("place_tetromino.schema.json")
	moveSchema          = mustCompileSchema("move_piece.schema.json")
	promoteSchema       = mustCompileSchema("promote_pawn.schema.json")
	playerActionSchema  = mustCompileSchema("player_action.schema.json")
)

func mustCompileSchema(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// decodeValidated reads the request body, checks it against the schema, and
// unmarshals it into dst. The schema runs on the raw document so unknown
// fields and type mismatches are caught before Go's permissive decoding.
func decodeValidated(r *http.Request, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read request body")
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}
	// A bare `null` body means the same as no body at all.
	if doc == nil {
		body = []byte("{}")
		doc = map[string]any{}
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid request: %v", err)
	}

	return json.Unmarshal(body, dst)
}
