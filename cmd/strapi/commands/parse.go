package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
)

// filterSpec is a parsed --filter or --or flag.
type filterSpec struct {
	Field    string
	Operator strapi.Operator
	Value    any
}

// parseFilter reads "field:operator:value". List operators (in, notIn,
// between) take comma separated values; null and notNull need no value.
func parseFilter(raw string) (filterSpec, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return filterSpec{}, fmt.Errorf("%w: %q", constants.ErrInvalidFilter, raw)
	}

	op, err := strapi.ParseOperator(parts[1])
	if err != nil {
		return filterSpec{}, err
	}

	spec := filterSpec{Field: parts[0], Operator: op}

	switch op {
	case strapi.OpNull, strapi.OpNotNull:
		spec.Value = constants.BooleanTrue
		if len(parts) == 3 && parts[2] != "" {
			spec.Value = parts[2]
		}

		return spec, nil
	case strapi.OpIn, strapi.OpNotIn, strapi.OpBetween:
		if len(parts) < 3 {
			return filterSpec{}, fmt.Errorf("%w: %q", constants.ErrInvalidFilter, raw)
		}

		spec.Value = strings.Split(parts[2], ",")
	default:
		if len(parts) < 3 {
			return filterSpec{}, fmt.Errorf("%w: %q", constants.ErrInvalidFilter, raw)
		}

		spec.Value = parts[2]
	}

	return spec, nil
}

// parseSort reads "field" or "field:asc|desc".
func parseSort(raw string) (strapi.SortSpec, error) {
	field, order, found := strings.Cut(raw, ":")
	if !found {
		return strapi.SortSpec{Field: field}, nil
	}

	switch strings.ToLower(order) {
	case string(strapi.SortAsc):
		return strapi.Asc(field), nil
	case string(strapi.SortDesc):
		return strapi.Desc(field), nil
	default:
		return strapi.SortSpec{}, fmt.Errorf("%w: %q", constants.ErrInvalidSortOrder, raw)
	}
}

// populateSpec is a parsed --populate flag: "*", "relation",
// "relation:field1,field2" or a dotted path such as "author.avatar".
type populateSpec struct {
	All      bool
	Relation string
	Fields   []string
	Nested   bool
}

func parsePopulate(raw string) populateSpec {
	if raw == constants.PopulateAll {
		return populateSpec{All: true}
	}

	relation, rawFields, _ := strings.Cut(raw, ":")

	spec := populateSpec{Relation: relation, Nested: strings.Contains(relation, ".")}
	if rawFields != "" {
		spec.Fields = strings.Split(rawFields, ",")
	}

	return spec
}

// readPayload returns the JSON document given inline, or read from file when
// file is set ("-" reads stdin).
func readPayload(inline, file string, stdin io.Reader) (any, error) {
	data := []byte(inline)

	if file != "" {
		var err error

		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file) // #nosec G304 -- path is supplied by the user on the command line
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
	}

	var payload any

	err := json.Unmarshal(data, &payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err)
	}

	return payload, nil
}

// payloadObject requires payload to be a JSON object.
func payloadObject(payload any) (map[string]any, error) {
	object, ok := payload.(map[string]any)
	if !ok {
		return nil, constants.ErrInvalidPayload
	}

	return object, nil
}

// payloadList accepts a JSON array of objects, or a single object.
func payloadList(payload any) ([]any, error) {
	switch value := payload.(type) {
	case []any:
		for _, item := range value {
			if _, ok := item.(map[string]any); !ok {
				return nil, constants.ErrInvalidPayload
			}
		}

		return value, nil
	case map[string]any:
		return []any{value}, nil
	default:
		return nil, constants.ErrInvalidPayload
	}
}
