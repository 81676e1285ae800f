package salesforce

import "reflect"

// Normalize flattens call-site arguments into the items an operation works on.
// A single slice or array argument is expanded into its elements; any other
// argument list is taken as-is, in order. []byte counts as a single value.
func Normalize(args ...any) []any {
	if len(args) == 1 {
		if items, ok := expand(args[0]); ok {
			return items
		}
	}
	items := make([]any, len(args))
	copy(items, args)
	return items
}

func expand(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		items := make([]any, len(t))
		copy(items, t)
		return items, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
