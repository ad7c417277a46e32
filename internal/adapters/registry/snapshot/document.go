package snapshot

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/olusolaa/pkgutils/internal/core/domain"
	"github.com/olusolaa/pkgutils/internal/errors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(path, ".hcl"):
		return FormatHCL, nil
	}
	return "", errors.NewUserFacing(errors.CodeSnapshotReadError,
		fmt.Sprintf("cannot infer snapshot format of %s", path), "Use a .json or .hcl snapshot file.")
}

// Application is one registry entry as written in a snapshot document.
type Application struct {
	ID           string                          `mapstructure:"id" validate:"required"`
	Label        string                          `mapstructure:"label"`
	Flags        []string                        `mapstructure:"flags" validate:"dive,oneof=system updated_system"`
	Icon         string                          `mapstructure:"icon"`
	Launchable   bool                            `mapstructure:"launchable"`
	Components   []string                        `mapstructure:"components" validate:"dive,required"`
	Metadata     map[string]domain.MetadataValue `mapstructure:"metadata"`
	Strings      map[string]string               `mapstructure:"strings"`
	StringArrays map[string][]string             `mapstructure:"string_arrays" validate:"dive,keys,numeric,endkeys"`
	Drawables    map[string]string               `mapstructure:"drawables"`
}

type Document struct {
	Applications []Application `mapstructure:"applications" validate:"dive"`
}

var metadataValueType = reflect.TypeOf(domain.MetadataValue{})

// metadataHook maps literal strings to string values and integral numbers
// to resource ids, the way the platform stores android:value and
// android:resource entries.
func metadataHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != metadataValueType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return domain.StringValue(v), nil
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("metadata resource id %v is not an integer", v)
		}
		return domain.ResourceValue(int(v)), nil
	case int:
		return domain.ResourceValue(v), nil
	case int64:
		return domain.ResourceValue(int(v)), nil
	case domain.MetadataValue:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported metadata value of type %T", data)
}

func decodeDocument(raw map[string]any) (*Document, error) {
	doc := &Document{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  metadataHook,
		ErrorUnused: true,
		Result:      doc,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build snapshot decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError, "failed to decode snapshot document")
	}
	return doc, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		var details strings.Builder
		details.WriteString("Snapshot validation failed:")
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			details.WriteString(" " + err.Error())
		}
		return errors.NewUserFacing(errors.CodeSnapshotValidationError, details.String(), "Check the snapshot document.")
	}

	seen := make(map[string]struct{}, len(d.Applications))
	for _, app := range d.Applications {
		if _, dup := seen[app.ID]; dup {
			return errors.NewUserFacing(errors.CodeSnapshotValidationError,
				fmt.Sprintf("application '%s' listed more than once", app.ID), "Application identifiers must be unique.")
		}
		seen[app.ID] = struct{}{}
	}
	return nil
}

func (a Application) record() domain.ApplicationRecord {
	flags, _ := domain.ParseFlags(a.Flags)
	var meta domain.Metadata
	if a.Metadata != nil {
		meta = make(domain.Metadata, len(a.Metadata))
		for k, v := range a.Metadata {
			meta[k] = v
		}
	}
	return domain.ApplicationRecord{
		ID:       a.ID,
		Label:    a.Label,
		Flags:    flags,
		Metadata: meta,
	}
}

func (a Application) arrays() map[int][]string {
	out := make(map[int][]string, len(a.StringArrays))
	for k, v := range a.StringArrays {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}
