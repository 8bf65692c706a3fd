package datablock

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// toNative turns the value of a data attribute into the plain Go values
// used by the templates: string, int64, float64, bool, []any and map[string]any.
// Whole numbers that fit in an int64 stay integers so they print without decimals.
func toNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty == cty.Number:
		return number(v)

	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		items := []any{}
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			item, err := toNative(elem)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", len(items), err)
			}
			items = append(items, item)
		}
		return items, nil

	case ty.IsObjectType(), ty.IsMapType():
		fields := map[string]any{}
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			name := key.AsString()
			val, err := toNative(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			fields[name] = val
		}
		return fields, nil
	}

	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func number(v cty.Value) (any, error) {
	if bf := v.AsBigFloat(); bf.IsInt() {
		if i, err := toInt64(v); err == nil {
			return i, nil
		}
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return nil, fmt.Errorf("number out of range: %w", err)
	}
	return f, nil
}

func toInt64(v cty.Value) (int64, error) {
	var i int64
	err := gocty.FromCtyValue(v, &i)
	return i, err
}
