package handlers

import (
	"bytes"
	"encoding/json"
	"math"
)

// Request fields are decoded leniently: a value of the wrong JSON type does
// not fail the bind, it reaches the validators as if the field were absent.

// textField holds a JSON string. Any other JSON value decodes to "".
type textField string

func (t *textField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = ""
	}
	*t = textField(s)
	return nil
}

// tokenField holds a JSON string or the literal text of a JSON number,
// so {"humanToken": 7} reads as "7".
type tokenField string

func (t *tokenField) UnmarshalJSON(b []byte) error {
	switch v := decodeAny(b).(type) {
	case string:
		*t = tokenField(v)
	case json.Number:
		*t = tokenField(v.String())
	default:
		*t = ""
	}
	return nil
}

// intField holds an integral JSON number. Anything else, including null,
// leaves it unset.
type intField struct {
	v *int
}

func (n *intField) UnmarshalJSON(b []byte) error {
	n.v = nil
	num, ok := decodeAny(b).(json.Number)
	if !ok {
		return nil
	}
	if i, err := num.Int64(); err == nil {
		if i >= math.MinInt && i <= math.MaxInt {
			v := int(i)
			n.v = &v
		}
		return nil
	}
	// 7.0 is the integer 7
	if f, err := num.Float64(); err == nil && f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
		v := int(f)
		n.v = &v
	}
	return nil
}

func (n intField) Ptr() *int { return n.v }

func decodeAny(b []byte) any {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}
