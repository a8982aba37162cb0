package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Impact is the preferred direction of a criterion.
type Impact int

const (
	Maximize Impact = iota
	Minimize
)

func (i Impact) String() string {
	if i == Minimize {
		return "-"
	}
	return "+"
}

// MarshalJSON encodes an impact as its "+" / "-" symbol.
func (i Impact) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON accepts only the exact "+" / "-" symbols.
func (i *Impact) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseImpact(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// ParseImpact maps a trimmed token to an Impact. Only "+" and "-" are valid.
func ParseImpact(token string) (Impact, error) {
	switch strings.TrimSpace(token) {
	case "+":
		return Maximize, nil
	case "-":
		return Minimize, nil
	}
	return 0, parameterError("impacts must be + or - only, got %q", token)
}

// WeightVector holds one raw multiplier per criterion. Weights are not
// normalised to sum to 1.
type WeightVector []float64

// ImpactVector holds one direction per criterion, aligned with WeightVector.
type ImpactVector []Impact

// ParseParameters parses comma-separated weight and impact strings and
// validates them against the criterion count. Checks run in a fixed order and
// the first failure is reported:
//
//  1. weights count equals impacts count
//  2. every impact is exactly "+" or "-"
//  3. every weight is a finite number
//  4. the count equals the number of criteria
func ParseParameters(weights, impacts string, criteria int) (WeightVector, ImpactVector, error) {
	wTokens := splitTokens(weights)
	iTokens := splitTokens(impacts)

	if len(wTokens) != len(iTokens) {
		return nil, nil, parameterError("number of weights (%d) must equal number of impacts (%d)", len(wTokens), len(iTokens))
	}

	iv := make(ImpactVector, len(iTokens))
	for k, tok := range iTokens {
		imp, err := ParseImpact(tok)
		if err != nil {
			return nil, nil, err
		}
		iv[k] = imp
	}

	wv := make(WeightVector, len(wTokens))
	for k, tok := range wTokens {
		v, ok := parseFinite(tok)
		if !ok {
			return nil, nil, parameterError("weights must be numeric and separated by commas, got %q", tok)
		}
		wv[k] = v
	}

	if len(wv) != criteria {
		return nil, nil, parameterError("weights & impacts count (%d) must match number of criterion columns (%d)", len(wv), criteria)
	}
	return wv, iv, nil
}

// ValidateParameters applies the count and finiteness checks to
// already-structured vectors.
func ValidateParameters(w WeightVector, imp ImpactVector, criteria int) error {
	if len(w) != len(imp) {
		return parameterError("number of weights (%d) must equal number of impacts (%d)", len(w), len(imp))
	}
	for k, v := range imp {
		if v != Maximize && v != Minimize {
			return parameterError("impact %d is not + or -", k+1)
		}
	}
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return parameterError("weights must be finite numbers, got %v", v)
		}
	}
	if len(w) != criteria {
		return parameterError("weights & impacts count (%d) must match number of criterion columns (%d)", len(w), criteria)
	}
	return nil
}

// String renders the vector in the comma-separated input form.
func (w WeightVector) String() string {
	parts := make([]string, len(w))
	for k, v := range w {
		parts[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// String renders the vector in the comma-separated input form.
func (iv ImpactVector) String() string {
	parts := make([]string, len(iv))
	for k, v := range iv {
		parts[k] = v.String()
	}
	return strings.Join(parts, ",")
}

// splitTokens splits on commas and trims each token. An empty string yields a
// single empty token so that "" is rejected as an impact rather than ignored.
func splitTokens(s string) []string {
	parts := strings.Split(s, ",")
	for k := range parts {
		parts[k] = strings.TrimSpace(parts[k])
	}
	return parts
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}
