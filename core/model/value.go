package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is a measurement that may be missing. The zero Value is Missing,
// which is distinct from a reported zero.
type Value struct {
	v  float64
	ok bool
}

// Missing is the "not reported" sentinel.
var Missing = Value{}

// Some wraps a reported measurement. NaN is treated as missing.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Missing
	}
	return Value{v: v, ok: true}
}

// Get returns the measurement and whether it was reported.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// IsMissing reports whether no measurement was reported.
func (v Value) IsMissing() bool { return !v.ok }

// OrZero returns the measurement, or 0 when missing.
func (v Value) OrZero() float64 {
	if !v.ok {
		return 0
	}
	return v.v
}

// Plus sums two values. The result is missing only when both are missing.
func (v Value) Plus(o Value) Value {
	if !v.ok && !o.ok {
		return Missing
	}
	return Some(v.OrZero() + o.OrZero())
}

// Scale multiplies a reported value by f and leaves missing values untouched.
func (v Value) Scale(f float64) Value {
	if !v.ok {
		return Missing
	}
	return Some(v.v * f)
}

func (v Value) String() string {
	if !v.ok {
		return "null"
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
