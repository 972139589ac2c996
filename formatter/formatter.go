package formatter

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	defaultLeft  = "{{"
	defaultRight = "}}"
)

// Delimiters is the pair of markers bracketing a field
// name inside a placeholder. An empty half falls back to
// its default.
type Delimiters struct {
	Left  string
	Right string
}

// DefaultDelimiters returns the double-brace pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Left: defaultLeft, Right: defaultRight}
}

// Placeholder returns the placeholder text for field.
func (de Delimiters) Placeholder(field string) string {
	de = de.resolved()
	return de.Left + field + de.Right
}

func (de Delimiters) resolved() Delimiters {
	if de.Left == "" {
		de.Left = defaultLeft
	}

	if de.Right == "" {
		de.Right = defaultRight
	}

	return de
}

// Delimited is implemented by record types that carry
// their own delimiter pair. It takes precedence over the
// Formatter configuration.
type Delimited interface {
	Delimiters() Delimiters
}

// Formatter fills templates from record fields. The zero
// value uses double-brace delimiters and JSONSerializer.
// A Formatter is safe for concurrent use.
type Formatter struct {
	Delimiters Delimiters
	Serializer Serializer
}

// Format fills template with the fields of record using
// the zero Formatter.
func Format(record any, template string) (string, error) {
	return Formatter{}.Format(record, template)
}

// Format replaces every placeholder of every record field
// in template with the field's rendered value. Strings are
// inserted verbatim, other values as compact JSON.
//
// The call fails without output if the record cannot be
// serialized or if any field's placeholder is absent from
// template; in the latter case one *MissingPlaceholderError
// per absent field is joined into the returned error.
// Placeholders without a matching field are kept as is.
func (fo Formatter) Format(
	record any,
	template string,
) (string, error) {
	const errCtx = "formatting record"

	replacer, err := fo.prepare(record, template)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if replacer == nil {
		return template, nil
	}

	return replacer.Replace(template), nil
}

// FormatTo is Format writing to w. Nothing is written when
// validation fails.
func (fo Formatter) FormatTo(
	w io.Writer,
	record any,
	template string,
) error {
	const errCtx = "formatting record"

	replacer, err := fo.prepare(record, template)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if replacer == nil {
		_, err = io.WriteString(w, template)
	} else {
		_, err = replacer.WriteString(w, template)
	}

	if err != nil {
		return fmt.Errorf("%s: writing output: %w", errCtx, err)
	}

	return nil
}

// FieldsOf returns the field map Format would use for
// record.
func (fo Formatter) FieldsOf(record any) (Fields, error) {
	if rv := reflect.ValueOf(record); rv.Kind() == reflect.Map && rv.IsNil() {
		return Fields{}, nil
	}

	if fm, ok := record.(FieldMapper); ok {
		fields, err := fm.Fields()
		if err != nil {
			return nil, serializationErr(err)
		}

		if fields == nil {
			return nil, serializationErr(errNotObject)
		}

		return fields, nil
	}

	ser := fo.Serializer
	if ser == nil {
		ser = JSONSerializer{}
	}

	fields, err := ser.Fields(record)
	if err != nil {
		return nil, serializationErr(err)
	}

	return fields, nil
}

// DelimitersFor returns the delimiter pair used for record.
func (fo Formatter) DelimitersFor(record any) Delimiters {
	if dr, ok := record.(Delimited); ok {
		return dr.Delimiters().resolved()
	}

	return fo.Delimiters.resolved()
}

// prepare serializes record, checks every field against
// the original template and builds a replacer for the
// rendered values. A nil replacer means nothing to
// substitute.
func (fo Formatter) prepare(
	record any,
	template string,
) (*strings.Replacer, error) {
	fields, err := fo.FieldsOf(record)
	if err != nil {
		return nil, err
	}

	delims := fo.DelimitersFor(record)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)

	var missing []error

	for _, name := range names {
		placeholder := delims.Left + name + delims.Right
		if !strings.Contains(template, placeholder) {
			missing = append(missing, &MissingPlaceholderError{
				Field:       name,
				Placeholder: placeholder,
			})
		}
	}

	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if len(names) == 0 {
		return nil, nil
	}

	// Longest placeholder first: where two placeholders
	// match at the same position the longer one wins.
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})

	pairs := make([]string, 0, 2*len(names))

	for _, name := range names {
		text, err := render(fields[name])
		if err != nil {
			return nil, serializationErr(
				fmt.Errorf("rendering field %q: %w", name, err),
			)
		}

		pairs = append(pairs, delims.Left+name+delims.Right, text)
	}

	return strings.NewReplacer(pairs...), nil
}

// render converts a field value to its textual form.
func render(value any) (string, error) {
	if str, ok := value.(string); ok {
		return str, nil
	}

	raw, err := json.MarshalWithOption(value, json.DisableHTMLEscape())
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
