package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RatioState distinguishes finite ratios from the degenerate cases of the
// financial model.
type RatioState int

const (
	// RatioFinite carries a regular numeric value.
	RatioFinite RatioState = iota
	// RatioUnbounded is a non-zero amount over a zero base (churn 0, zero net
	// burn). Value carries the sign (+1 or -1).
	RatioUnbounded
	// RatioUndefined has no meaningful value (zero revenue, 0/0).
	RatioUndefined
)

const unboundedToken = "unbounded"

// Ratio is a derived metric that may be unbounded or undefined instead of
// relying on IEEE infinities and NaN.
type Ratio struct {
	Value float64
	State RatioState
}

// Finite returns a finite ratio.
func Finite(v float64) Ratio { return Ratio{Value: v} }

// Unbounded returns an unbounded ratio with the given sign.
func Unbounded(sign float64) Ratio {
	if sign < 0 {
		return Ratio{Value: -1, State: RatioUnbounded}
	}
	return Ratio{Value: 1, State: RatioUnbounded}
}

// Undefined returns the undefined ratio.
func Undefined() Ratio { return Ratio{State: RatioUndefined} }

// Divide computes num/den, mapping a zero denominator to Unbounded (non-zero
// numerator) or Undefined (zero numerator).
func Divide(num, den float64) Ratio {
	if math.IsNaN(num) || math.IsNaN(den) {
		return Undefined()
	}
	if den == 0 {
		if num == 0 {
			return Undefined()
		}
		return Unbounded(num)
	}
	q := num / den
	if math.IsInf(q, 0) {
		return Unbounded(q)
	}
	return Finite(q)
}

// IsFinite reports whether the ratio carries a regular value.
func (r Ratio) IsFinite() bool { return r.State == RatioFinite }

// IsUnbounded reports whether the ratio is unbounded.
func (r Ratio) IsUnbounded() bool { return r.State == RatioUnbounded }

// IsUndefined reports whether the ratio is undefined.
func (r Ratio) IsUndefined() bool { return r.State == RatioUndefined }

// Round rounds a finite ratio to the given number of decimals.
func (r Ratio) Round(decimals int) Ratio {
	if r.State != RatioFinite {
		return r
	}
	return Finite(RoundTo(r.Value, decimals))
}

// DivideBy divides a ratio by a plain amount; an unbounded ratio stays
// unbounded for any non-negative divisor.
func (r Ratio) DivideBy(den float64) Ratio {
	switch r.State {
	case RatioUndefined:
		return r
	case RatioUnbounded:
		if den < 0 {
			return Unbounded(-r.Value)
		}
		return r
	}
	return Divide(r.Value, den)
}

// String renders the ratio for tables and logs.
func (r Ratio) String() string {
	switch r.State {
	case RatioUnbounded:
		if r.Value < 0 {
			return "-∞"
		}
		return "∞"
	case RatioUndefined:
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// MarshalJSON encodes finite ratios as numbers, unbounded as "unbounded"
// (or "-unbounded") and undefined as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	switch r.State {
	case RatioUnbounded:
		if r.Value < 0 {
			return []byte(`"-` + unboundedToken + `"`), nil
		}
		return []byte(`"` + unboundedToken + `"`), nil
	case RatioUndefined:
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*r = Undefined()
		return nil
	case `"` + unboundedToken + `"`:
		*r = Unbounded(1)
		return nil
	case `"-` + unboundedToken + `"`:
		*r = Unbounded(-1)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding ratio: %w", err)
	}
	*r = Finite(v)
	return nil
}

// RoundHalfUp rounds to the nearest integer with ties toward +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo rounds to the given number of decimals with ties toward +Inf.
func RoundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return RoundHalfUp(v*scale) / scale
}
