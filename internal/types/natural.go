package types

// Natural converts v to plain Go values: nil, bool, int64 or float64, string,
// []any and map[string]any. Metadata keys are kept as ordinary fields.
func Natural(v Value) any {
	switch x := v.(type) {
	case nil, NullValue:
		return nil
	case BooleanValue:
		return bool(x)
	case NumberValue:
		if x.IsInteger() {
			if i, err := x.Int64(); err == nil {
				return i
			}
		}
		f, err := x.Float64()
		if err != nil {
			return string(x)
		}
		return f
	case TextValue:
		return string(x)
	case *ArrayValue:
		out := make([]any, len(x.values))
		for i, e := range x.values {
			out[i] = Natural(e)
		}
		return out
	case *ObjectValue:
		out := make(map[string]any, len(x.fields))
		for _, f := range x.fields {
			out[f.Name] = Natural(f.Value)
		}
		return out
	}

	return nil
}
