package types

// Equal returns true if a and b are structurally equal.
// Numbers are compared by their text, objects by their fields in order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}

	switch x := a.(type) {
	case NullValue:
		return true
	case BooleanValue:
		return x == b.(BooleanValue)
	case NumberValue:
		return x == b.(NumberValue)
	case TextValue:
		return x == b.(TextValue)
	case *ArrayValue:
		y := b.(*ArrayValue)
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.values {
			if !Equal(x.values[i], y.values[i]) {
				return false
			}
		}
		return true
	case *ObjectValue:
		y := b.(*ObjectValue)
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.fields {
			if x.fields[i].Name != y.fields[i].Name {
				return false
			}
			if !Equal(x.fields[i].Value, y.fields[i].Value) {
				return false
			}
		}
		return true
	}

	return false
}
