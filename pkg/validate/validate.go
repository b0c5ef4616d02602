// Package validate checks request structs against `validate` struct tags.
//
// Supported rules (comma-separated):
//
//	required        field must not be zero/empty
//	nullable        if empty, skip the remaining rules
//	email           valid email address
//	uuid            canonical UUID
//	alpha_dash      letters, digits, hyphens, underscores
//	min=N / max=N   string length, or numeric value
//	gt=N / gte=N    numeric lower bound
//	lte=N           numeric upper bound
//	in=a|b|c        one of the listed values
//	dive            validate each element of a slice of structs
//
// Numeric rules understand decimal.Decimal as well as Go number kinds.
//
//	type FoodInput struct {
//	    Name  string          `json:"name"  validate:"required,max=100"`
//	    Price decimal.Decimal `json:"price" validate:"gt=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Struct validates v and returns field → message. An empty map means valid.
// Errors inside a dived slice are keyed "items[2].quantity".
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	walk(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := prefix + jsonFieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "nullable" || rule == "dive" {
				continue
			}
			if msg := apply(rule, name, value); msg != "" {
				errs[name] = msg
				failed = true
				break
			}
		}

		if !failed && hasRule(rules, "dive") && value.Kind() == reflect.Slice {
			for j := 0; j < value.Len(); j++ {
				walk(value.Index(j), fmt.Sprintf("%s[%d].", name, j), errs)
			}
		}
	}
}

func apply(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	deref := indirect(v)

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRE.MatchString(text(deref)) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "uuid":
		if _, err := uuid.Parse(text(deref)); err != nil {
			return fmt.Sprintf("The %s must be a valid UUID.", field)
		}
	case "alpha_dash":
		for _, c := range text(deref) {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
			}
		}

	case "min":
		if n, ok := number(deref); ok {
			if n.LessThan(mustDecimal(param)) {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if length(deref) < mustInt(param) {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		if n, ok := number(deref); ok {
			if n.GreaterThan(mustDecimal(param)) {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if length(deref) > mustInt(param) {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if n, ok := number(deref); !ok || !n.GreaterThan(mustDecimal(param)) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if n, ok := number(deref); !ok || n.LessThan(mustDecimal(param)) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if n, ok := number(deref); !ok || n.GreaterThan(mustDecimal(param)) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "in":
		raw := text(deref)
		for _, allowed := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func isEmpty(v reflect.Value) bool {
	if v.Type() == decimalType {
		return false
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

// number converts numeric kinds and decimal.Decimal to a decimal.
func number(v reflect.Value) (decimal.Decimal, bool) {
	if !v.IsValid() {
		return decimal.Zero, false
	}
	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal), true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromInt(int64(v.Uint())), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(v.Float()), true
	}
	return decimal.Zero, false
}

func text(v reflect.Value) string {
	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func length(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len()
	}
	return len([]rune(text(v)))
}

func mustDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(strings.TrimSpace(s))
	return d
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
