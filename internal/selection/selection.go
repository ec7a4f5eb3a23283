// Package selection parses slide selection expressions such as "2,4-6" and
// resolves them against a slide count.
//
// Grammar:
//
//	expr  = token *( "," token )
//	token = number | number "-" number
//
// Whitespace around tokens and around range ends is ignored. An empty
// expression selects every slide.
package selection

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidSyntax is returned for expressions that do not match the grammar.
var ErrInvalidSyntax = errors.New("invalid slide selection")

// maxRangeSpan bounds a single range so that "1-2000000000" cannot allocate
// an unbounded slice.
const maxRangeSpan = 65536

// Expr is a parsed selection.
type Expr struct {
	// All selects every slide.
	All bool

	// Numbers holds the selected slide numbers, sorted and unique.
	Numbers []int
}

// Selection is an Expr resolved against a slide count.
type Selection struct {
	// Valid holds the numbers in [1, n], ascending.
	Valid []int

	// Invalid holds the numbers outside [1, n], ascending.
	Invalid []int
}

// Parse parses expr.
func Parse(expr string) (*Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return &Expr{All: true}, nil
	}

	var numbers []int
	for _, raw := range strings.Split(expr, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, fmt.Errorf("%w: empty entry in %q", ErrInvalidSyntax, expr)
		}

		lo, hi, isRange := strings.Cut(token, "-")
		if !isRange {
			n, err := parseNumber(token)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidSyntax, err)
			}
			numbers = append(numbers, n)
			continue
		}

		start, err := parseNumber(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: range %q: %w", ErrInvalidSyntax, token, err)
		}
		end, err := parseNumber(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%w: range %q: %w", ErrInvalidSyntax, token, err)
		}
		if start > end {
			return nil, fmt.Errorf("%w: range %q runs backwards", ErrInvalidSyntax, token)
		}
		if end-start >= maxRangeSpan {
			return nil, fmt.Errorf("%w: range %q spans more than %d slides", ErrInvalidSyntax, token, maxRangeSpan)
		}
		for n := start; n <= end; n++ {
			numbers = append(numbers, n)
		}
	}

	slices.Sort(numbers)
	return &Expr{Numbers: slices.Compact(numbers)}, nil
}

// parseNumber accepts unsigned decimal digits only.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a number", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is too large", s)
	}
	return n, nil
}

// Resolve partitions the expression against a deck of n slides.
func (e *Expr) Resolve(n int) *Selection {
	sel := &Selection{}
	if e.All {
		for i := 1; i <= n; i++ {
			sel.Valid = append(sel.Valid, i)
		}
		return sel
	}
	for _, num := range e.Numbers {
		if num >= 1 && num <= n {
			sel.Valid = append(sel.Valid, num)
		} else {
			sel.Invalid = append(sel.Invalid, num)
		}
	}
	return sel
}

// String returns the canonical form, collapsing consecutive numbers into
// ranges. The empty selection of all slides renders as "all".
func (e *Expr) String() string {
	if e.All {
		return "all"
	}
	var parts []string
	for i := 0; i < len(e.Numbers); {
		j := i
		for j+1 < len(e.Numbers) && e.Numbers[j+1] == e.Numbers[j]+1 {
			j++
		}
		if j == i {
			parts = append(parts, strconv.Itoa(e.Numbers[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", e.Numbers[i], e.Numbers[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// Resolve parses expr and resolves it against n slides.
func Resolve(expr string, n int) (*Selection, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return e.Resolve(n), nil
}
