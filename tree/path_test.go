// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package tree_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jcr/tree"
)

func TestPath(t *testing.T) {
	const input = `$item = {"id": integer, "tags": [string, "x"]}
{"items": [1, {"k": [true, null]}, $item], "n": 2.50}`
	doc := mustParse(t, input, nil)

	tests := []struct {
		path []any
		want string
	}{
		{nil, doc.Root.JCR()},
		{[]any{"n"}, "2.50"},
		{[]any{"items", 0}, "1"},
		{[]any{"items", -1}, "$item"},
		{[]any{"items", 1, "k", -2}, "true"},
		{[]any{"$item"}, `{"id":integer,"tags":[string,"x"]}`},
		{[]any{"$item", "tags", 1}, `"x"`},
		{[]any{"$item", "id"}, "integer"},
		{[]any{"items", func(v tree.Node) (tree.Node, error) {
			return v.(*tree.Array).Values[1], nil
		}, "k"}, "[true,null]"},
	}
	for _, test := range tests {
		got, err := doc.Path(test.path...)
		if err != nil {
			t.Errorf("Path %v: unexpected error: %v", test.path, err)
			continue
		}
		if s := got.JCR(); s != test.want {
			t.Errorf("Path %v: got %#q, want %#q", test.path, s, test.want)
		}
	}
}

func TestPathErrors(t *testing.T) {
	doc := mustParse(t, `$r = [1] {"a": [1, 2], "b": "c"}`, nil)
	errFail := errors.New("fail")

	tests := [][]any{
		{"nonesuch"},
		{"a", 2},
		{"a", -3},
		{"b", "c"},
		{"a", "x"},
		{1.5},
		{"$nope"},
		{"$r", 1},
		{"a", func(tree.Node) (tree.Node, error) { return nil, errFail }},
	}
	for _, path := range tests {
		if got, err := doc.Path(path...); err == nil {
			t.Errorf("Path %v: got %v, want error", path, got)
		}
	}

	// On error, Path returns its input.
	in := doc.Root
	if got, err := tree.Path(in, "a", 5); err == nil || got != in {
		t.Errorf("Path: got %v, %v; want input and error", got, err)
	}

	empty := mustParse(t, `$only = string`, nil)
	if _, err := empty.Path("x"); err == nil {
		t.Error("Path of a document with no value: got nil, want error")
	}
}
