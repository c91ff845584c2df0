package validator

import (
	"math/big"
	"regexp"
	"strconv"
)

// Plain decimal literal: optional sign, digits with an optional fraction and
// an exponent of at most four digits. Rejects hex, NaN, Inf and underscores.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d{1,4})?$`)

var (
	bigTwo = big.NewInt(2)
	bigTen = big.NewInt(10)
)

// parseNumber converts raw into an exact rational according to the declared
// value type.
func parseNumber(raw string, t ValueType) (*big.Rat, bool) {
	switch t {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return new(big.Rat).SetInt64(n), true
	case TypeUint:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return new(big.Rat).SetUint64(n), true
	}
	if !decimalPattern.MatchString(raw) {
		return nil, false
	}
	return new(big.Rat).SetString(raw)
}

// checkNumber evaluates numeric rule r against n.
func checkNumber(r Rule, n *big.Rat) bool {
	switch r.kind {
	case KindMin:
		return n.Cmp(floatRat(r.bound)) >= 0
	case KindMax:
		return n.Cmp(floatRat(r.bound)) <= 0
	case KindNumberMin:
		return n.Cmp(new(big.Rat).SetInt64(r.intBound)) >= 0
	case KindNumberMax:
		return n.Cmp(new(big.Rat).SetInt64(r.intBound)) <= 0
	case KindPositiveNumber:
		return n.Sign() > 0
	case KindNonNegativeNumber:
		return n.Sign() >= 0
	case KindInteger:
		return n.IsInt()
	case KindDecimalScale:
		scale := new(big.Int).Exp(bigTen, big.NewInt(int64(r.min)), nil)
		return new(big.Rat).Mul(n, new(big.Rat).SetInt(scale)).IsInt()
	case KindOddNumber:
		return n.IsInt() && new(big.Int).Mod(n.Num(), bigTwo).Sign() != 0
	case KindEvenNumber:
		return n.IsInt() && new(big.Int).Mod(n.Num(), bigTwo).Sign() == 0
	case KindMultipleOf:
		return new(big.Rat).Quo(n, new(big.Rat).SetInt64(r.intBound)).IsInt()
	}
	return false
}

// floatRat converts a bound through its shortest decimal form so that Min(0.1)
// accepts the input "0.1".
func floatRat(f float64) *big.Rat {
	r, ok := new(big.Rat).SetString(formatBound(f))
	if !ok {
		return new(big.Rat).SetFloat64(f)
	}
	return r
}
