package snapshot

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	jsoniter "github.com/json-iterator/go"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/olusolaa/pkgutils/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseDocument decodes and validates a snapshot document.
func ParseDocument(data []byte, format Format, filename string) (*Document, error) {
	var raw map[string]any
	var err error

	switch format {
	case FormatJSON:
		raw, err = parseJSON(data)
	case FormatHCL:
		raw, err = parseHCL(data, filename)
	default:
		return nil, errors.New(errors.CodeSnapshotParseError, fmt.Sprintf("unsupported snapshot format: %s", format))
	}
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseJSON(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError, "failed to parse JSON snapshot")
	}
	if raw == nil {
		return nil, errors.New(errors.CodeSnapshotParseError, "JSON snapshot is empty")
	}
	return raw, nil
}

var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "application", LabelNames: []string{"id"}}},
}

// parseHCL turns `application "<id>" { ... }` blocks into the same generic
// shape the JSON form produces. Attribute values are evaluated without a
// context, so snapshots may not reference variables or call functions.
func parseHCL(data []byte, filename string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.CodeSnapshotParseError, "failed to parse HCL snapshot")
	}

	content, diags := file.Body.Content(documentSchema)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.CodeSnapshotParseError, "unexpected content in HCL snapshot")
	}

	apps := make([]any, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, errors.Wrap(diags, errors.CodeSnapshotParseError,
				fmt.Sprintf("invalid attributes for application %s", block.Labels[0]))
		}

		app := map[string]any{"id": block.Labels[0]}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, errors.Wrap(diags, errors.CodeSnapshotParseError,
					fmt.Sprintf("cannot evaluate %s.%s", block.Labels[0], name))
			}
			if val.IsNull() {
				continue
			}
			encoded, err := ctyjson.Marshal(val, val.Type())
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
					fmt.Sprintf("cannot convert %s.%s", block.Labels[0], name))
			}
			var generic any
			if err := json.Unmarshal(encoded, &generic); err != nil {
				return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
					fmt.Sprintf("cannot convert %s.%s", block.Labels[0], name))
			}
			app[name] = generic
		}
		apps = append(apps, app)
	}

	return map[string]any{"applications": apps}, nil
}
