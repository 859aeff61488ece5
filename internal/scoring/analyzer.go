// Package scoring counts language constructs in a code submission.
//
// The counts are a keyword heuristic, not a parse: malformed or non-Python
// text still yields a count for every field. The simulation formulas are
// tuned to exactly these patterns, so they must not be made smarter.
package scoring

import (
	"regexp"
	"strings"
	"unicode"
)

// Counts holds how often each construct appears in a submission
type Counts struct {
	Lines              int `json:"lines"`
	Assignments        int `json:"assignments"`
	Conditionals       int `json:"conditionals"`
	Loops              int `json:"loops"`
	Functions          int `json:"functions"`
	ListComprehensions int `json:"listComprehensions"`
	Comments           int `json:"comments"`
	Datasets           int `json:"datasets"`
}

// space matches the whitespace that blank-line and assignment counting skip:
// ASCII spaces, Unicode space separators, the BOM and the line terminators.
// An assignment line starts after \n, a lone \r, U+2028 or U+2029.
const space = `[\t\n\v\f\r\x{2028}\x{2029}\x{feff}\p{Zs}]`

var (
	lineSplitRegexp     = regexp.MustCompile(`\r?\n`)
	assignmentRegexp    = regexp.MustCompile(`(?:^|[\n\r\x{2028}\x{2029}])` + space + `*[a-zA-Z_]\w*` + space + `*=`)
	ifRegexp            = regexp.MustCompile(`\bif\b`)
	elseRegexp          = regexp.MustCompile(`\belse\b`)
	forRegexp           = regexp.MustCompile(`\bfor\b`)
	whileRegexp         = regexp.MustCompile(`\bwhile\b`)
	defRegexp           = regexp.MustCompile(`\bdef\b`)
	comprehensionRegexp = regexp.MustCompile(`\[[^\]]+\bfor\b`)
	datasetRegexp       = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)
)

// Analyze counts constructs over the whole text. It never fails.
func Analyze(code string) Counts {
	return Counts{
		Lines:              countLines(code),
		Assignments:        count(assignmentRegexp, code),
		Conditionals:       count(ifRegexp, code) + count(elseRegexp, code),
		Loops:              count(forRegexp, code) + count(whileRegexp, code),
		Functions:          count(defRegexp, code),
		ListComprehensions: count(comprehensionRegexp, code),
		Comments:           strings.Count(code, "#"),
		Datasets:           count(datasetRegexp, code),
	}
}

// countLines returns the number of non-blank lines
func countLines(code string) int {
	lines := 0
	for _, line := range lineSplitRegexp.Split(code, -1) {
		if strings.TrimFunc(line, isSpace) != "" {
			lines++
		}
	}
	return lines
}

func count(re *regexp.Regexp, code string) int {
	return len(re.FindAllStringIndex(code, -1))
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
