package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry performs a strict parity check between each kind's declared
// schema and its Go parameter struct. It checks both the presence of
// parameters and the compatibility of their types, and that the defaults
// decode cleanly.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.order {
		k := r.kinds[name]
		before := len(errs)
		if k.Fn == nil {
			errs = append(errs, fmt.Sprintf("kind '%s': no process function", name))
		}
		if k.NewParams == nil {
			errs = append(errs, fmt.Sprintf("kind '%s': no parameter constructor", name))
			continue
		}

		paramsType := reflect.TypeOf(k.NewParams())
		if paramsType.Kind() != reflect.Ptr || paramsType.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("kind '%s': NewParams must return a pointer to a struct, got %s", name, paramsType))
			continue
		}
		paramsType = paramsType.Elem()

		goParams := make(map[string]reflect.StructField)
		for i := 0; i < paramsType.NumField(); i++ {
			field := paramsType.Field(i)
			if !field.IsExported() {
				continue
			}
			tagName := strings.Split(field.Tag.Get("cty"), ",")[0]
			if tagName != "" && tagName != "-" {
				goParams[tagName] = field
			}
		}

		// Check for presence mismatches
		for param := range goParams {
			if _, ok := k.Schema[param]; !ok {
				errs = append(errs, fmt.Sprintf("kind '%s': Go struct has field for parameter '%s' which is not declared in schema", name, param))
			}
		}
		for param := range k.Schema {
			if _, ok := goParams[param]; !ok {
				errs = append(errs, fmt.Sprintf("kind '%s': schema declares parameter '%s' which is not found in Go struct", name, param))
			}
		}
		for param := range k.Defaults {
			if _, ok := k.Schema[param]; !ok {
				errs = append(errs, fmt.Sprintf("kind '%s': default given for undeclared parameter '%s'", name, param))
			}
		}

		// Check for type mismatches
		for param, schemaType := range k.Schema {
			goField, ok := goParams[param]
			if !ok {
				continue // Already handled by presence check
			}
			if schemaType.Equals(cty.DynamicPseudoType) {
				logger.Warn("Kind declares a parameter of dynamic type, which disables static type checking.", "kind", name, "parameter", param)
				continue
			}
			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("kind '%s', parameter '%s': could not imply cty type from Go field type %s: %v", name, param, goField.Type, err))
				continue
			}
			if !schemaType.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("kind '%s', parameter '%s': type mismatch. Schema requires '%s' but Go struct field '%s' provides '%s'",
					name, param, schemaType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}

		if len(errs) == before {
			if _, err := r.DecodeParams(k, nil); err != nil {
				errs = append(errs, fmt.Sprintf("kind '%s': defaults do not decode: %v", name, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validated.", "kinds", len(r.order))
	return nil
}
