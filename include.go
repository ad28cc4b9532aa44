package genproj

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	deferredregex "github.com/peterebden/go-deferred-regex"

	"git.fractalqb.de/fractalqb/genproj/genkore"
)

// pathToken matches runs of characters that can be part of a file path in a
// TCL command.
var pathToken = deferredregex.DeferredRegex{Re: `[^\s{}"\[\];]+`}

// Substitute replaces each file reference in the script text with the
// canonical path recorded in lu. A token is a file reference if its basename
// matches one of the categories. Comments and glob patterns are kept as
// they are. The from argument names the file text was read from.
func Substitute(
	tr *genkore.Trace,
	lu *genkore.Lookup,
	cats genkore.Categories,
	from, text string,
) (string, error) {
	var errs *multierror.Error
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if isComment(line) {
			continue
		}
		var tail string
		if c := commentStart(line); c >= 0 {
			line, tail = line[:c], line[c:]
		}
		lines[i] = pathToken.ReplaceAllStringFunc(line, func(tok string) string {
			if strings.ContainsAny(tok, "*?") {
				return tok
			}
			base := genkore.BaseName(tok)
			if base == "" || !cats.Matches(base) {
				return tok
			}
			path, err := lu.Recall(tr, tok, from)
			if err != nil {
				errs = multierror.Append(errs, err)
				return tok
			}
			path = scriptPath(path)
			if path != tok {
				tr.Debug("substitute `ref` with `file`", `ref`, tok, `file`, path)
			}
			return path
		}) + tail
	}
	if err := errs.ErrorOrNil(); err != nil {
		return "", err
	}
	return strings.Join(lines, ""), nil
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

// commentStart returns the index of the semicolon that starts a trailing
// comment outside of double quotes, or -1.
func commentStart(line string) int {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			quoted = !quoted
		case ';':
			if quoted {
				continue
			}
			j := i + 1
			for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
				j++
			}
			if j < len(line) && line[j] == '#' {
				return i
			}
		}
	}
	return -1
}
