package main

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rekindle/pkg/sfile"
)

// numberPrinter groups large integer counts (grid sizes, step counts)
// for readability.
var numberPrinter = message.NewPrinter(language.English)

func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatShape(shape []int) string {
	if len(shape) == 0 {
		return "-"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = formatCount(d)
	}
	return strings.Join(parts, "x")
}

func formatDataset(d sfile.Dataset) string {
	switch d.Kind() {
	case sfile.KindFloat:
		v, _ := d.AsFloat()
		return formatFloat(v)
	case sfile.KindInt, sfile.KindBool:
		v, _ := d.AsInt()
		return strconv.FormatInt(v, 10)
	case sfile.KindString:
		v, _ := d.AsString()
		return v
	case sfile.KindArray:
		if vals, err := d.AsFloats(); err == nil && len(vals) <= 4 {
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = formatFloat(v)
			}
			return "[" + strings.Join(parts, " ") + "]"
		}
		return "array " + formatShape(d.Shape())
	case sfile.KindInts:
		return "ints " + formatShape(d.Shape())
	default:
		return d.Kind().String()
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
