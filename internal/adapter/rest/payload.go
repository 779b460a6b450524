package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/patrimonio/tracker-backend/internal/domain"
	"github.com/patrimonio/tracker-backend/internal/usecase/snapshot"
)

// savePayloadSchema describes the upsert body: an object whose keys are
// date strings and whose values are non-empty entry lists. Struct tags
// cannot express dynamic keys, so the shape is checked with a JSON Schema
// before decoding.
const savePayloadSchema = `{
	"type": "object",
	"minProperties": 1,
	"patternProperties": {
		"^([0-9]{4}-[0-9]{2}-[0-9]{2}|[0-9]{2}-[0-9]{2}-[0-9]{4})$": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["nome", "bruto", "liquido"],
				"properties": {
					"nome": {"type": "string", "minLength": 1},
					"bruto": {"type": "number", "minimum": 0},
					"liquido": {"type": "number", "minimum": 0}
				}
			}
		}
	},
	"additionalProperties": false
}`

var compiledSavePayloadSchema = jsonschema.MustCompileString("save-payload.json", savePayloadSchema)

// decodeSaveBatch validates body against the payload schema and turns the
// date-keyed object into an ordered (date, entries) sequence. Keys are
// sorted so processing never depends on JSON object iteration order.
func decodeSaveBatch(body []byte) ([]snapshot.DatedEntries, error) {
	var shape interface{}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&shape); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}

	if err := compiledSavePayloadSchema.Validate(shape); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var payload map[string][]snapshot.EntryInput
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed snapshot batch", domain.ErrValidation)
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	batch := make([]snapshot.DatedEntries, 0, len(keys))
	for _, key := range keys {
		batch = append(batch, snapshot.DatedEntries{DateKey: key, Entries: payload[key]})
	}
	return batch, nil
}
