package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

// InsertModel renders an INSERT for the exported db-tagged fields of model,
// in field order, followed by suffix.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	columns, values, err := dbFields(model)
	if err != nil {
		return "", nil, err
	}
	return insert(table, columns, values, suffix)
}

func dbFields(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, errors.New("model must be a struct")
	}

	var (
		columns []string
		values  []any
	)
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		columns = append(columns, name)
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}

	if len(columns) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return columns, values, nil
}
