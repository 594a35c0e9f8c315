package engine

import (
	"strconv"
	"strings"
)

// Placeholders recognised in converter argument templates.
const (
	phInput  = "{input}"
	phOutput = "{output}"
	phStart  = "{start}"
	phEnd    = "{end}"
)

// BuildArgs expands an argument template for one conversion. Any argument
// that references {end} is dropped when end == AllPages, so converters fall
// back to their own "through the last page" default.
func BuildArgs(template []string, input, output string, start, end int) []string {
	r := strings.NewReplacer(
		phInput, input,
		phOutput, output,
		phStart, strconv.Itoa(start),
		phEnd, strconv.Itoa(end),
	)

	args := make([]string, 0, len(template))
	for _, a := range template {
		if end == AllPages && strings.Contains(a, phEnd) {
			continue
		}
		args = append(args, r.Replace(a))
	}
	return args
}
