// pkg/util/generic_test.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package util

import (
	"reflect"
	"testing"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 {
		t.Errorf("Select true")
	}
	if Select(false, 1, 2) != 2 {
		t.Errorf("Select false")
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"c": 2, "a": 0, "b": 1}
	if got := SortedMapKeys(m); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedMapKeys: %v", got)
	}
}

func TestDuplicateSlice(t *testing.T) {
	s := []int{1, 2, 3}
	d := DuplicateSlice(s)
	if !reflect.DeepEqual(s, d) {
		t.Errorf("copy differs: %v", d)
	}
	d[0] = 99
	if s[0] != 1 {
		t.Errorf("copy aliases the source")
	}
}

func TestMapSlice(t *testing.T) {
	got := MapSlice([]int{1, 2, 3}, func(v int) int { return 2 * v })
	if !reflect.DeepEqual(got, []int{2, 4, 6}) {
		t.Errorf("MapSlice: %v", got)
	}
}

func TestFilterSlice(t *testing.T) {
	got := FilterSlice([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("FilterSlice: %v", got)
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("fresh logger reports errors")
	}
	e.Push("sam.xml")
	e.Push("jetway 'Gate 11'")
	e.ErrorString("bad %s", "heading")
	e.Pop()
	e.Pop()
	if !e.HaveErrors() {
		t.Errorf("error not recorded")
	}
	if got := e.String(); got != "sam.xml / jetway 'Gate 11': bad heading" {
		t.Errorf("context missing: %q", got)
	}
}
