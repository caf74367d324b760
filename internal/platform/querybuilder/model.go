package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from a struct's `db` tags. Fields tagged
// `db:"-"` or without a tag are skipped.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("insert model is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert model must be a struct, got %s", v.Kind())
	}

	t := v.Type()
	columns := make([]string, 0, t.NumField())
	values := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("db"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, tag)
		values = append(values, v.Field(i).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert model has no db-tagged fields")
	}

	b := InsertInto(table).Columns(columns...).Values(values...)
	if suffix != "" {
		b = b.Suffix(suffix)
	}
	return b.ToSQL()
}
