// Package criteria binds request parameters onto list criteria structs.
package criteria

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-viper/mapstructure/v2"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// TagName is the struct tag naming a bindable field. "-" makes a field unbindable.
const TagName = "criteria"

// Mapping maps request parameter names to target field paths
type Mapping map[string]string

// Common mappings reused by list endpoints
var (
	PagingMapping = Mapping{
		"start":   "StartIndex",
		"count":   "MaxCount",
		"lang":    "Language",
		"q":       "Search",
		"store":   "StoreCode",
		"order":   "OrderBy",
		"orderBy": "OrderByField",
	}
)

// Merge returns a mapping containing m and every entry of others
func (m Mapping) Merge(others ...Mapping) Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// BindCriteria sets the fields of target named by mapping from params.
// Parameters missing from params leave their field untouched and parameters
// missing from mapping are ignored. Nested fields use dotted paths.
func BindCriteria(mapping map[string]string, params url.Values, target any) error {
	root := reflect.ValueOf(target)
	if root.Kind() != reflect.Ptr || root.IsNil() || root.Elem().Kind() != reflect.Struct {
		return shared.WrapDomainError("INVALID_INPUT", "criteria target must be a pointer to a struct", shared.ErrInvalidInput)
	}

	for param, path := range mapping {
		values, ok := params[param]
		if !ok || len(values) == 0 {
			continue
		}
		field, err := lookup(root.Elem(), path)
		if err != nil {
			return err
		}
		if err := decode(field, values); err != nil {
			return shared.WrapDomainError("INVALID_INPUT",
				fmt.Sprintf("invalid value for parameter %s", param), err)
		}
	}
	return nil
}

// BindQuery binds the query string of c
func BindQuery(c *gin.Context, mapping map[string]string, target any) error {
	return BindCriteria(mapping, c.Request.URL.Query(), target)
}

func lookup(v reflect.Value, path string) (reflect.Value, error) {
	cur := v
	for _, name := range strings.Split(path, ".") {
		if cur.Kind() == reflect.Ptr {
			if cur.IsNil() {
				cur.Set(reflect.New(cur.Type().Elem()))
			}
			cur = cur.Elem()
		}
		if cur.Kind() != reflect.Struct {
			return reflect.Value{}, unknownField(path)
		}
		next, ok := findField(cur, name)
		if !ok {
			return reflect.Value{}, unknownField(path)
		}
		cur = next
	}
	if !cur.CanSet() {
		return reflect.Value{}, unknownField(path)
	}
	return cur, nil
}

// findField matches a field by criteria tag or name, then searches embedded structs
func findField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		if tag == name || f.Name == name {
			return v.Field(i), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}
		if found, ok := findField(v.Field(i), name); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

func decode(field reflect.Value, values []string) error {
	var input any = values[0]
	if field.Kind() == reflect.Slice {
		var items []string
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		}
		input = items
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeHookFunc("2006-01-02"),
		),
		Result: field.Addr().Interface(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func unknownField(path string) error {
	return shared.WrapDomainError("INVALID_INPUT", "unknown criteria field "+path, shared.ErrInvalidInput)
}
