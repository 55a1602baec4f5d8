package main

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shipq/proptest/proptest"
	"github.com/shipq/proptest/proptest/value"
)

var errUnknownFuzzer = errors.New("unknown fuzzer")

// builtin is a fuzzer whose values are rendered for the terminal.
type builtin struct {
	desc string
	fuzz proptest.Fuzzer[string]
}

func render[T any](g proptest.Fuzzer[T], show func(T) string) proptest.Fuzzer[string] {
	return proptest.Map(g, show)
}

var builtins = map[string]builtin{
	"int": {
		desc: "integers, biased toward small magnitudes",
		fuzz: render(proptest.Labelled(proptest.Int(), signLabel), strconv.Itoa),
	},
	"byte": {
		desc: "single bytes",
		fuzz: render(proptest.Byte(), func(b byte) string { return strconv.Itoa(int(b)) }),
	},
	"bool": {
		desc: "booleans",
		fuzz: render(proptest.Labelled(proptest.Bool(), strconv.FormatBool), strconv.FormatBool),
	},
	"bytes": {
		desc: "byte strings",
		fuzz: render(
			proptest.Labelled(proptest.ByteString(), func(b []byte) string { return sizeLabel(len(b)) }),
			func(b []byte) string { return "#" + hex.EncodeToString(b) },
		),
	},
	"value": {
		desc: "structured values up to depth 3",
		fuzz: render(proptest.Labelled(value.Default(), kindLabel), value.Value.String),
	},
	"list": {
		desc: "lists of small integers",
		fuzz: render(
			proptest.Labelled(proptest.List(proptest.IntBetween(0, 99)), func(xs []int) string { return sizeLabel(len(xs)) }),
			func(xs []int) string { return fmt.Sprint(xs) },
		),
	},
}

func lookupFuzzer(name string) (builtin, error) {
	b, ok := builtins[strings.ToLower(name)]
	if !ok {
		return builtin{}, errors.Wrapf(errUnknownFuzzer, "%q (have %s)", name, strings.Join(fuzzerNames(), ", "))
	}
	return b, nil
}

func fuzzerNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func signLabel(n int) string {
	switch {
	case n < 0:
		return "negative"
	case n == 0:
		return "zero"
	default:
		return "positive"
	}
}

func sizeLabel(n int) string {
	switch {
	case n == 0:
		return "empty"
	case n <= 4:
		return "short"
	default:
		return "long"
	}
}

func kindLabel(v value.Value) string {
	switch v.(type) {
	case value.Int:
		return "int"
	case value.Bytes:
		return "bytes"
	case value.List:
		return "list"
	case value.Map:
		return "map"
	case value.Constr:
		if _, ok := value.AsBool(v); ok {
			return "bool"
		}
		return "constr"
	default:
		return "unknown"
	}
}
