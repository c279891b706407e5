package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a recurrence step: a granularity plus a positive count.
// A count above one is only meaningful for units reporting AcceptsCount
type Interval struct {
	Unit  Unit
	Count int
}

// String renders the interval in its canonical token form ("day",
// "15 minutes", "2 months"). The form round-trips through Parse
func (iv Interval) String() string {
	if iv.Count == 1 {
		return iv.Unit.String()
	}
	return fmt.Sprintf("%d %ss", iv.Count, iv.Unit)
}

// Validate checks the count invariant
func (iv Interval) Validate() error {
	if iv.Count < 1 {
		return &UnrecognizedIntervalError{
			Token:  iv.String(),
			Reason: "count must be a positive integer",
		}
	}
	if iv.Count > 1 && !iv.Unit.AcceptsCount() {
		return &UnrecognizedIntervalError{
			Token:  iv.String(),
			Reason: fmt.Sprintf("%s does not take a count", iv.Unit),
		}
	}
	return nil
}

// unitAliases maps accepted unit spellings to units. Plural forms are
// handled by Parse before lookup
var unitAliases = map[string]Unit{
	"sec":     Second,
	"second":  Second,
	"min":     Minute,
	"minute":  Minute,
	"hr":      Hour,
	"hour":    Hour,
	"day":     Day,
	"week":    Week,
	"month":   Month,
	"quarter": Quarter,
	"year":    Year,
}

// Parse reads an interval token: a unit name optionally preceded by a
// positive integer count. Case and singular/plural are ignored, so
// "day", "2 days", "15 MIN" and "3 months" all parse
func Parse(tok string) (Interval, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(tok)))
	count := 1
	name := ""
	switch len(fields) {
	case 1:
		name = fields[0]
	case 2:
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return Interval{}, &UnrecognizedIntervalError{Token: tok}
		}
		count = n
		name = fields[1]
	default:
		return Interval{}, &UnrecognizedIntervalError{Token: tok}
	}

	name = strings.TrimSuffix(name, "s")
	u, ok := unitAliases[name]
	if !ok {
		return Interval{}, &UnrecognizedIntervalError{Token: tok}
	}

	iv := Interval{Unit: u, Count: count}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}
