package musictext

import "fmt"

// Fraction is an exact reduced rational. Durations throughout the
// rhythm model are fractions of a whole note, so numerators and
// denominators stay small (nothing finer than 128ths appears).
type Fraction struct {
	Num int
	Den int
}

// Frac builds a reduced fraction. A zero denominator normalises to 0/1.
func Frac(num, den int) Fraction {
	if den == 0 {
		return Fraction{0, 1}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Fraction{num, den}
}

// Add returns f + o.
func (f Fraction) Add(o Fraction) Fraction {
	return Frac(f.Num*o.Den+o.Num*f.Den, f.Den*o.Den)
}

// Mul returns f * o.
func (f Fraction) Mul(o Fraction) Fraction {
	return Frac(f.Num*o.Num, f.Den*o.Den)
}

// MulInt returns f * n.
func (f Fraction) MulInt(n int) Fraction {
	return Frac(f.Num*n, f.Den)
}

// DivInt returns f / n. Division by zero yields 0/1.
func (f Fraction) DivInt(n int) Fraction {
	return Frac(f.Num, f.Den*n)
}

// IsZero reports whether the fraction is zero.
func (f Fraction) IsZero() bool { return f.Num == 0 }

// Equal reports exact equality of the reduced forms.
func (f Fraction) Equal(o Fraction) bool {
	a, b := Frac(f.Num, f.Den), Frac(o.Num, o.Den)
	return a.Num == b.Num && a.Den == b.Den
}

// Cmp returns -1, 0 or +1 comparing f against o.
func (f Fraction) Cmp(o Fraction) int {
	l := f.Num * o.Den
	r := o.Num * f.Den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// String returns "num/den".
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
