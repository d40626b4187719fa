// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"errors"
	"fmt"

	"github.com/creachadair/jcr/rule"
)

// Path traverses a sequential path through the structure of a value starting
// at v, where path elements are either strings (denoting object keys) or
// integers (denoting offsets into arrays). If the path is valid, the element
// reached is returned. In case of error, the input v is returned along with
// the error.
//
// Object and array rules inside a *RuleDef are traversed the same way, and
// the elements reached are reported as *RuleDef nodes.
//
// Negative array indices count backward from the end of the array (-1 is
// last, -2 second last, etc.).
//
// If a path element is a function with signature
//
//	func(tree.Node) (tree.Node, error)
//
// the function is executed and its result becomes the next node in the
// sequence. If the function fails, the traversal reports its error.
func Path(v Node, path ...any) (Node, error) {
	cur := v
	for _, elt := range path {
		if m, ok := cur.(*Member); ok {
			cur = m.Value
		}
		switch t := elt.(type) {
		case string:
			if rd, ok := cur.(*RuleDef); ok && rd.Rule.Kind == rule.Object {
				r := rd.Rule.Find(t)
				if r == nil {
					return v, fmt.Errorf("key %q not found", t)
				}
				cur = &RuleDef{Rule: r}
				continue
			}
			o, ok := cur.(*Object)
			if !ok {
				return v, fmt.Errorf("cannot traverse %T with %q", cur, elt)
			}
			m := o.Find(t)
			if m == nil {
				return v, fmt.Errorf("key %q not found", t)
			}
			cur = m
		case int:
			if rd, ok := cur.(*RuleDef); ok && rd.Rule.Kind == rule.Array {
				i, ok := fixArrayBound(len(rd.Rule.Items), t)
				if !ok {
					return v, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(rd.Rule.Items))
				}
				cur = &RuleDef{Rule: rd.Rule.Items[i]}
				continue
			}
			a, ok := cur.(*Array)
			if !ok {
				return v, fmt.Errorf("cannot traverse %T with %v", cur, elt)
			}
			i, ok := fixArrayBound(len(a.Values), t)
			if !ok {
				return v, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(a.Values))
			}
			cur = a.Values[i]
		case func(Node) (Node, error):
			next, err := t(cur)
			if err != nil {
				return v, err
			}
			cur = next
		default:
			return v, fmt.Errorf("invalid path element %T", elt)
		}
	}
	if m, ok := cur.(*Member); ok {
		return m.Value, nil
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// Path traverses path starting at the root value of d, as the Path function
// does. If the first element of path is a string beginning with "$", the
// traversal instead starts at the rule bound to that name, as a *RuleDef.
func (d *Document) Path(path ...any) (Node, error) {
	if len(path) != 0 {
		if s, ok := path[0].(string); ok && len(s) > 1 && s[0] == '$' {
			b := d.Binding(s[1:])
			if b == nil {
				return nil, fmt.Errorf("rule %s not bound", s)
			}
			return Path(&RuleDef{Rule: b.Rule, at: b.at}, path[1:]...)
		}
	}
	if d.Root == nil {
		return nil, errors.New("document has no value")
	}
	return Path(d.Root, path...)
}
