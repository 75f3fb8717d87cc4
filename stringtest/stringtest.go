// Package stringtest builds expected multi-line strings for tests, such as
// generated scripts and CLI reports.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"Dimensions:",
//		" - Rows ====> 5",
//	) // -> "Dimensions:\n - Rows ====> 5"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Input removes the common leading indentation from a raw string literal so
// expected output can be indented along with the test code.
//
// One leading and one trailing newline are dropped, lines holding only
// whitespace become empty, and the smallest indentation of the remaining
// lines is removed from every line.
//
// Example:
//
//	want := stringtest.Input(`
//	    local anim_dt = 0
//	    if anim_dt > 0.1 then
//	        anim_dt = 0
//	    end`,
//	) // -> "local anim_dt = 0\nif anim_dt > 0.1 then\n    anim_dt = 0\nend"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	indent := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if line != "" {
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}
