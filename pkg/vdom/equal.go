package vdom

// Equal reports whether two trees are structurally equal.
//
// A nil node equals an Empty node. Attribute values are compared in their
// plain-data form, so int(1) equals float64(1) and []string{"a"} equals
// []any{"a"}. Component nodes are equal when their components have the
// same name and their props are equal.
func Equal(a, b *Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case KindEmpty:
		return true
	case KindText:
		return a.Text == b.Text
	case KindNumber:
		return a.Num == b.Num
	case KindList:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindElement:
		return a.Tag == b.Tag &&
			a.Key == b.Key &&
			attrsEqual(a.Attrs, b.Attrs) &&
			Equal(a.Children, b.Children)
	case KindComponent:
		if (a.Comp == nil) != (b.Comp == nil) {
			return false
		}
		if a.Comp != nil && a.Comp.Name() != b.Comp.Name() {
			return false
		}
		return attrsEqual(a.Props.Attrs, b.Props.Attrs) &&
			Equal(a.Props.Children, b.Props.Children)
	}
	return false
}

func attrsEqual(a, b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !ValueEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// ValueEqual compares two attribute values in their plain-data form.
func ValueEqual(a, b any) bool {
	na, okA := Normalize(a)
	nb, okB := Normalize(b)
	if !okA || !okB {
		return false
	}
	return plainEqual(na, nb)
}

func plainEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !plainEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, present := bv[k]
			if !present || !plainEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
