package formatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Fields maps a record's field names to their serialized
// values. Values are strings, numbers, booleans, nil,
// []any or map[string]any.
type Fields map[string]any

// Serializer turns a record into its field map.
type Serializer interface {
	Fields(record any) (Fields, error)
}

// FieldMapper is implemented by records that build their
// own field map instead of going through a Serializer.
type FieldMapper interface {
	Fields() (map[string]any, error)
}

var errNotObject = errors.New("record does not serialize to an object")

// JSONSerializer serializes records with their json tags.
// Numbers keep the exact literal the encoder produced.
type JSONSerializer struct{}

// Fields implements Serializer.
func (JSONSerializer) Fields(record any) (Fields, error) {
	const errCtx = "json serializer"

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	fields, err := asObject(generic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return fields, nil
}

// YAMLSerializer serializes records with their yaml tags.
type YAMLSerializer struct{}

// Fields implements Serializer.
func (YAMLSerializer) Fields(record any) (Fields, error) {
	const errCtx = "yaml serializer"

	raw, err := yaml.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	fields, err := asObject(generic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return fields, nil
}

// StructSerializer maps struct fields by reflection,
// naming them after TagName ("json" when empty). Nested
// structs become nested maps.
type StructSerializer struct {
	TagName string
}

// Fields implements Serializer.
func (ss StructSerializer) Fields(record any) (Fields, error) {
	const errCtx = "struct serializer"

	if record == nil {
		return nil, fmt.Errorf("%s: %w", errCtx, errNotObject)
	}

	tagName := ss.TagName
	if tagName == "" {
		tagName = "json"
	}

	fields := make(map[string]any)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &fields,
		TagName: tagName,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return fields, nil
}

func asObject(generic any) (Fields, error) {
	obj, ok := generic.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotObject, generic)
	}

	return obj, nil
}
