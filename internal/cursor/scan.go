package cursor

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	ora "github.com/sijms/go-ora/v2"
)

// Scan reads a ref cursor returned through an output parameter into results, a pointer to a struct or to a
// slice of structs.
func Scan(cursor interface{}, results interface{}) error {
	rows, closeCursor, err := openCursor(cursor)
	if err != nil {
		return err
	}
	defer closeCursor()

	resultsVal := reflect.ValueOf(results)
	if resultsVal.Kind() != reflect.Ptr || resultsVal.IsNil() {
		return fmt.Errorf("results must be a non-nil pointer, got %T", results)
	}

	cols := rows.Columns()
	dests := make([]driver.Value, len(cols))

	if resultsVal.Elem().Kind() == reflect.Slice {
		allRows, err := populateRows(rows, dests)
		if err != nil {
			return err
		}
		return mapToSlice(results, cols, allRows)
	}
	found, err := populateOne(rows, dests)
	if err != nil || !found {
		return err
	}
	return mapTo(results, cols, dests)
}

func openCursor(cursor interface{}) (driver.Rows, func(), error) {
	switch c := cursor.(type) {
	case *ora.RefCursor:
		ds, err := c.Query()
		if err != nil {
			return nil, nil, err
		}
		return ds, func() {
			ds.Close()
			c.Close()
		}, nil
	case driver.Rows:
		if c == nil {
			return nil, nil, errors.New("cursor is nil")
		}
		return c, func() { c.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cursor type %T", cursor)
	}
}

func populateRows(rows driver.Rows, dests []driver.Value) ([][]driver.Value, error) {
	var allRows [][]driver.Value
	for {
		if err := rows.Next(dests); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		newRow := make([]driver.Value, len(dests))
		copy(newRow, dests)
		allRows = append(allRows, newRow)
	}
	return allRows, nil
}

// populateOne reads the first row into dests and reports whether there was one.
func populateOne(rows driver.Rows, dests []driver.Value) (bool, error) {
	if err := rows.Next(dests); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func mapToSlice(slicePtr interface{}, cols []string, allRows [][]driver.Value) error {
	slicePtrValue := reflect.ValueOf(slicePtr)
	elemType := slicePtrValue.Elem().Type().Elem()

	for _, row := range allRows {
		newElem := reflect.New(elemType)
		if err := mapTo(newElem.Interface(), cols, row); err != nil {
			return err
		}
		slicePtrValue.Elem().Set(reflect.Append(slicePtrValue.Elem(), newElem.Elem()))
	}
	return nil
}

// mapTo fills the struct obj points to. Fields are matched to columns by their `db` tag, or by their
// uppercased name when untagged; unmatched fields are left alone.
func mapTo(obj interface{}, cols []string, dests []driver.Value) error {
	v := reflect.ValueOf(obj).Elem()
	t := v.Type()

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("cannot map cursor row into %s", t)
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		column := strings.Split(field.Tag.Get("db"), ",")[0]
		if column == "-" {
			continue
		}
		if column == "" {
			column = strings.ToUpper(field.Name)
		}
		posInCol := columnIndex(cols, column)
		structField := v.Field(i)
		if posInCol < 0 || !structField.CanSet() {
			continue
		}
		value := dests[posInCol]
		if value == nil {
			structField.Set(reflect.Zero(field.Type))
			continue
		}
		destValue := reflect.New(field.Type).Elem()
		if err := fieldStrategyByType(field.Type, value, destValue); err != nil {
			return fmt.Errorf("column %s: %w", column, err)
		}
		structField.Set(destValue)
	}
	return nil
}

func columnIndex(cols []string, column string) int {
	for j, c := range cols {
		if strings.EqualFold(c, column) {
			return j
		}
	}
	return -1
}

func trimTrailingWhitespace(input string) string {
	return strings.TrimRight(input, " ")
}

func fieldStrategyByType(fieldType reflect.Type, value driver.Value, destValue reflect.Value) error {
	switch value := value.(type) {
	case string:
		switch fieldType.Kind() {
		case reflect.Int, reflect.Int64, reflect.Int32:
			n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return err
			}
			destValue.SetInt(n)
		case reflect.String:
			destValue.SetString(trimTrailingWhitespace(value))
		case reflect.Bool:
			// Single character flags: S/Y are true, N is false.
			switch strings.TrimSpace(value) {
			case "S", "Y":
				destValue.SetBool(true)
			case "N":
				destValue.SetBool(false)
			default:
				return fmt.Errorf("cannot read %q as a flag", value)
			}
		default:
			return fmt.Errorf("cannot assign string to %s", fieldType)
		}
	case int64:
		switch fieldType.Kind() {
		case reflect.Int, reflect.Int64, reflect.Int32:
			destValue.SetInt(value)
		case reflect.Float64, reflect.Float32:
			destValue.SetFloat(float64(value))
		case reflect.String:
			destValue.SetString(strconv.FormatInt(value, 10))
		default:
			return fmt.Errorf("cannot assign int64 to %s", fieldType)
		}
	case float64:
		switch fieldType.Kind() {
		case reflect.Float32, reflect.Float64:
			destValue.SetFloat(value)
		case reflect.Int, reflect.Int64, reflect.Int32:
			destValue.SetInt(int64(value))
		case reflect.String:
			destValue.SetString(strconv.FormatFloat(value, 'f', -1, 64))
		default:
			return fmt.Errorf("cannot assign float64 to %s", fieldType)
		}
	case bool:
		switch fieldType.Kind() {
		case reflect.Bool:
			destValue.SetBool(value)
		case reflect.String:
			destValue.SetString(strconv.FormatBool(value))
		default:
			return fmt.Errorf("cannot assign bool to %s", fieldType)
		}
	case time.Time:
		switch {
		case fieldType == reflect.TypeOf(time.Time{}):
			destValue.Set(reflect.ValueOf(value))
		case fieldType.Kind() == reflect.String:
			destValue.SetString(value.Format(time.RFC3339))
		default:
			return fmt.Errorf("cannot assign time to %s", fieldType)
		}
	default:
		return fmt.Errorf("unhandled type %T", value)
	}
	return nil
}
