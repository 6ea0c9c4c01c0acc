package aggregation

import (
	"errors"
	"fmt"
	"math"
)

// Aggregator defines the reduce semantics of an aggregation operator.
// Every operator must be associative and commutative: the shuffle gives no ordering
// guarantee within a key's values.
// To add a new operator: implement this interface and register it in Operators.
type Aggregator interface {
	// Initial returns the aggregate value after the first value for a key.
	// count → 1; sum/min/max → the incoming value itself.
	Initial(incoming int64) int64

	// Apply folds an incoming value into an existing aggregate.
	Apply(current, incoming int64) (int64, error)
}

// Operators is the registry of all supported aggregation operators.
var Operators = map[string]Aggregator{
	OpCount: countAgg{},
	OpSum:   sumAgg{},
	OpMin:   minAgg{},
	OpMax:   maxAgg{},
}

// ValidOperator reports whether op is a registered aggregation operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// Reduce folds every value of one key into a single total.
// values must be non-empty; the shuffle never produces a key without values.
func Reduce(agg Aggregator, values []int64) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("reduce: no values")
	}
	total := agg.Initial(values[0])
	for _, v := range values[1:] {
		next, err := agg.Apply(total, v)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// ErrOverflow is returned when an integer aggregate leaves the int64 range.
var ErrOverflow = errors.New("aggregate overflows int64")

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// countAgg increments by 1 per value. The incoming value is ignored.
type countAgg struct{}

func (countAgg) Initial(_ int64) int64 { return 1 }
func (countAgg) Apply(cur, _ int64) (int64, error) {
	return addChecked(cur, 1)
}

// sumAgg accumulates the sum of incoming values.
type sumAgg struct{}

func (sumAgg) Initial(v int64) int64 { return v }
func (sumAgg) Apply(cur, inc int64) (int64, error) {
	return addChecked(cur, inc)
}

// minAgg tracks the minimum value seen.
type minAgg struct{}

func (minAgg) Initial(v int64) int64 { return v }
func (minAgg) Apply(cur, inc int64) (int64, error) {
	if inc < cur {
		return inc, nil
	}
	return cur, nil
}

// maxAgg tracks the maximum value seen.
type maxAgg struct{}

func (maxAgg) Initial(v int64) int64 { return v }
func (maxAgg) Apply(cur, inc int64) (int64, error) {
	if inc > cur {
		return inc, nil
	}
	return cur, nil
}
