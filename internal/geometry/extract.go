package geometry

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// decimal matches one signed decimal number, including the trailing-dot form
// STEP writers emit ("120.") and scientific notation.
const decimal = `(-?\d+(?:\.\d*)?(?:[eE][+-]?\d+)?)`

// Extraction strategies, ranked. For each line the first strategy that
// matches wins, so the same tuple is never collected twice.
var (
	// Named entity with a quoted label and an embedded 3-tuple, e.g.
	// #12=CARTESIAN_POINT('',(10.5,0.,3.2));
	reNamedNested = regexp.MustCompile(`[A-Z_][A-Z_0-9]*\s*\(\s*'[^']*'\s*,\s*\(\s*` + decimal + `\s*,\s*` + decimal + `\s*,\s*` + decimal + `\s*\)`)

	// Named entity with an inline 3-tuple at one nesting level.
	reNamedInline = regexp.MustCompile(`[A-Z_][A-Z_0-9]*\s*\(\s*` + decimal + `\s*,\s*` + decimal + `\s*,\s*` + decimal + `\s*\)`)

	// Generic fallback: any parenthesized 3-tuple of decimals.
	reBareTuple = regexp.MustCompile(`\(\s*` + decimal + `\s*,\s*` + decimal + `\s*,\s*` + decimal + `\s*\)`)
)

var tupleStrategies = []*regexp.Regexp{reNamedNested, reNamedInline, reBareTuple}

// complexityWeights adds to the complexity score when a line mentions a
// structural keyword. Shell-closure entities weigh more than face or vertex
// entities: the more enclosing topology a file declares, the less solid the
// part is assumed to be.
var complexityWeights = []struct {
	keyword string
	weight  float64
}{
	{"MANIFOLD_SOLID_BREP", 2.0},
	{"CLOSED_SHELL", 1.5},
	{"ADVANCED_FACE", 0.5},
	{"VERTEX_POINT", 0.2},
}

// Extraction is the result of scanning raw geometry text.
type Extraction struct {
	Points     []Point3
	Complexity float64
}

// ExtractPoints scans raw file text for coordinate-like patterns without any
// grammar guarantee. Candidate tuples are kept only when all three components
// are finite and below bound in magnitude, which rejects entity-reference
// integers that incidentally match the pattern. The complexity score starts
// at 1 and grows with structural keywords; it is a coarse proxy for how
// hollow the part is, with no claim to geometric correctness.
func ExtractPoints(text string, bound float64) Extraction {
	ex := Extraction{Complexity: 1.0}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		for _, w := range complexityWeights {
			if strings.Contains(line, w.keyword) {
				ex.Complexity += w.weight
			}
		}

		for _, re := range tupleStrategies {
			matches := re.FindAllStringSubmatch(line, -1)
			if len(matches) == 0 {
				continue
			}
			for _, m := range matches {
				if p, ok := parseTuple(m[1], m[2], m[3], bound); ok {
					ex.Points = append(ex.Points, p)
				}
			}
			break
		}
	}
	// Scanner errors only occur on oversized lines; treat them as end of
	// usable text and return what was found so far.

	return ex
}

func parseTuple(xs, ys, zs string, bound float64) (Point3, bool) {
	x, ok := parseCoord(xs, bound)
	if !ok {
		return Point3{}, false
	}
	y, ok := parseCoord(ys, bound)
	if !ok {
		return Point3{}, false
	}
	z, ok := parseCoord(zs, bound)
	if !ok {
		return Point3{}, false
	}
	return Point3{X: x, Y: y, Z: z}, true
}

func parseCoord(s string, bound float64) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	if v > bound || v < -bound {
		return 0, false
	}
	return v, true
}
