package templates

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields is a flattened section entry as it appears in a content document:
// the type tag plus field values. Values are strings, booleans, numbers or
// lists of strings and nested Fields, whether the entry was built in memory
// or decoded from JSON.
type Fields map[string]any

func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// List returns the elements of an array field as Fields. Bare string
// elements are exposed under the "text" key.
func (f Fields) List(key string) []Fields {
	var out []Fields
	switch v := f[key].(type) {
	case []any:
		for _, elem := range v {
			out = append(out, asFields(elem))
		}
	case []map[string]any:
		for _, elem := range v {
			out = append(out, Fields(elem))
		}
	case []Fields:
		out = append(out, v...)
	case []string:
		for _, s := range v {
			out = append(out, Fields{"text": s})
		}
	}
	return out
}

// Strings returns the elements of an array field as strings. Object
// elements contribute their "text" value.
func (f Fields) Strings(key string) []string {
	items := f.List(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String("text"))
	}
	return out
}

func asFields(v any) Fields {
	switch e := v.(type) {
	case map[string]any:
		return Fields(e)
	case Fields:
		return e
	case string:
		return Fields{"text": e}
	case nil:
		return Fields{}
	default:
		return Fields{"text": fmt.Sprint(e)}
	}
}
