package main

import "testing"

func Test_OpenBraces(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{`let x: int = 1;`, 0},
		{`func f || {`, 1},
		{`func f || { if true {`, 2},
		{`func f || { }`, 0},
		{`let s: string = "{";`, 0},
		{`let s: string = "\"{";`, 0},
		{`// {`, 0},
		{`/* { */`, 0},
		{`/* } */ func f || {`, 1},
		{"/* {\n   { */", 0},
		{`/* {`, 0},
	}
	for _, c := range cases {
		if got := openBraces(c.src); got != c.want {
			t.Errorf("openBraces(%q) = %d, want %d", c.src, got, c.want)
		}
	}
}
