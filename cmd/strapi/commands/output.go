package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/pkg/strapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// render writes data in the requested format. Tables show one row per entity,
// or a property/value table for a single entity.
func render(out io.Writer, format string, data any, meta *strapi.Meta) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(envelope(data, meta))
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)

		err := encoder.Encode(envelope(data, meta))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable, "":
		return renderTable(out, data, meta)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

func envelope(data any, meta *strapi.Meta) any {
	if meta == nil {
		return data
	}

	return map[string]any{"data": data, "meta": meta}
}

func renderTable(out io.Writer, data any, meta *strapi.Meta) error {
	generic, err := toGeneric(data)
	if err != nil {
		return err
	}

	switch value := generic.(type) {
	case nil:
		_, err = fmt.Fprintln(out, "No results")

		return err
	case []any:
		err = renderRows(out, value)
	case map[string]any:
		err = renderProperties(out, value)
	default:
		_, err = fmt.Fprintln(out, formatCell(value))
	}

	if err != nil {
		return err
	}

	if meta != nil && meta.Pagination != nil {
		_, err = fmt.Fprintln(out, paginationSummary(meta.Pagination))
	}

	return err
}

func renderRows(out io.Writer, rows []any) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No results")

		return err
	}

	columns := columnsOf(rows)

	table := tablewriter.NewWriter(out)
	table.Header(toAny(columns)...)

	for _, row := range rows {
		entity, _ := row.(map[string]any)

		cells := make([]any, len(columns))
		for i, column := range columns {
			cells[i] = formatCell(entity[column])
		}

		_ = table.Append(cells...)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderProperties(out io.Writer, entity map[string]any) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, key := range sortedKeys(entity) {
		_ = table.Append(key, formatCell(entity[key]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// columnsOf returns the union of row keys, "id" first and the rest sorted.
func columnsOf(rows []any) []string {
	seen := map[string]bool{}

	for _, row := range rows {
		entity, ok := row.(map[string]any)
		if !ok {
			continue
		}

		for key := range entity {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	if seen["id"] {
		columns = append(columns, "id")
		delete(seen, "id")
	}

	return append(columns, sortedKeys(seen)...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func formatCell(value any) string {
	var text string

	switch value.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return constants.NotAvailable
		}

		text = string(encoded)
	default:
		text = cast.ToString(value)
	}

	if len(text) > constants.StringTruncationLength {
		text = text[:constants.StringTruncationLength-3] + "..."
	}

	return text
}

func paginationSummary(pagination *strapi.Pagination) string {
	if pagination.PageCount > 0 {
		return fmt.Sprintf("Page %d of %d (%d total)", pagination.Page, pagination.PageCount, pagination.Total)
	}

	return fmt.Sprintf("Showing %d from %d (%d total)", pagination.Limit, pagination.Start, pagination.Total)
}

// toGeneric converts typed values into the map/slice shapes of decoded JSON.
func toGeneric(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	var generic any

	err = json.Unmarshal(encoded, &generic)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	return generic, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}
