package main

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func find[T comparable](item T, items []T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}

func Map[T any, S any](s []T, fn func(T) S) []S {
	var result []S
	for _, item := range s {
		result = append(result, fn(item))
	}
	return result
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// directiveArgs returns the fields after "//bus:<name>" in comments.
func directiveArgs(name string, comments []string) ([]string, bool) {
	prefix := "//bus:" + name
	for _, comment := range comments {
		if comment != prefix && !strings.HasPrefix(comment, prefix+" ") {
			continue
		}
		return strings.Fields(strings.TrimPrefix(comment, prefix)), true
	}
	return nil, false
}

type nameSelector struct {
	names map[string]bool
}

func newNameSelector() nameSelector {
	return nameSelector{
		names: make(map[string]bool),
	}
}

func (ns *nameSelector) Add(name string) {
	ns.names[name] = true
}

func (ns *nameSelector) New(base string) string {
	i := 1
	name := base
	for ns.names[name] {
		i++
		name = base + strconv.Itoa(i)
	}
	ns.Add(name)
	return name
}
