package sqldb

import (
	"fmt"
	"strings"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// rewriteNamed converts @name references in the statement to the dialect's
// positional placeholders and returns the referenced names in order of
// appearance. A name may appear more than once; its value is repeated.
//
// @ inside single-quoted strings, double-quoted identifiers and backtick
// identifiers is left alone, as is @@ (engine system variables).
func rewriteNamed(sql string, d Dialect) (string, []string) {
	var out strings.Builder
	var names []string

	i := 0
	n := len(sql)
	for i < n {
		ch := sql[i]
		switch ch {
		case '\'', '"', '`':
			// Copy the quoted region verbatim, honoring doubled quotes.
			quote := ch
			out.WriteByte(ch)
			i++
			for i < n {
				out.WriteByte(sql[i])
				if sql[i] == quote {
					if i+1 < n && sql[i+1] == quote {
						out.WriteByte(sql[i+1])
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		case '@':
			if i+1 < n && sql[i+1] == '@' {
				out.WriteString("@@")
				i += 2
				continue
			}
			start := i + 1
			j := start
			for j < n && isIdentChar(sql[j]) {
				j++
			}
			if j == start {
				out.WriteByte('@')
				i++
				continue
			}
			out.WriteString(d.Placeholder(len(names)))
			names = append(names, sql[start:j])
			i = j
		default:
			out.WriteByte(ch)
			i++
		}
	}

	return out.String(), names
}

// orderedValues resolves the referenced names against the parameter set.
func orderedValues(names []string, params *dbexec.ParameterSet) ([]any, error) {
	if len(names) == 0 {
		return nil, nil
	}
	values := make([]any, len(names))
	for i, name := range names {
		p, ok := params.Get(name)
		if !ok {
			return nil, fmt.Errorf("statement references parameter @%s which is not in the set: %w", name, dbexec.ErrInvalidConfig)
		}
		values[i] = p.Value
	}
	return values, nil
}

func isIdentChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
