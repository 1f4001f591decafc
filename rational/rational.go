package rational

import (
	"fmt"

	"github.com/jsphweid/rhythmdex/constants"
)

// Rational is an exact duration, expressed in whole notes. The zero value is 0.
// Values are kept normalized (den > 0, gcd(num, den) == 1) so they can be
// compared with ==. The denominator is stored minus one so that the zero
// value is already normalized.
type Rational struct {
	num   int64
	denM1 int64
}

var (
	Zero    = Rational{}
	One     = New(1, 1)
	Half    = New(1, 2)
	Quarter = New(1, 4)
	Eighth  = New(1, 8)
)

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// New returns num/den, normalized. It panics on a zero denominator.
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Zero
	}
	g := gcd(num, den)
	return Rational{num / g, den/g - 1}
}

// FromTicks converts a tick count (96 per quarter) to a Rational.
func FromTicks(ticks int64) Rational {
	return New(ticks, constants.WholeTicks)
}

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.denM1 + 1 }

func (r Rational) Add(o Rational) Rational {
	return New(r.num*o.Den()+o.num*r.Den(), r.Den()*o.Den())
}

func (r Rational) Sub(o Rational) Rational {
	return r.Add(o.Neg())
}

func (r Rational) Mul(o Rational) Rational {
	return New(r.num*o.num, r.Den()*o.Den())
}

// Div panics when o is zero.
func (r Rational) Div(o Rational) Rational {
	return New(r.num*o.Den(), r.Den()*o.num)
}

func (r Rational) MulInt(n int64) Rational {
	return New(r.num*n, r.Den())
}

func (r Rational) DivInt(n int64) Rational {
	return New(r.num, r.Den()*n)
}

func (r Rational) Neg() Rational {
	return Rational{-r.num, r.denM1}
}

func (r Rational) Abs() Rational {
	if r.Sign() < 0 {
		return r.Neg()
	}
	return r
}

func (r Rational) Sign() int {
	switch n := r.num; {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Cmp returns -1, 0 or +1.
func (r Rational) Cmp(o Rational) int {
	return r.Sub(o).Sign()
}

func (r Rational) Less(o Rational) bool { return r.Cmp(o) < 0 }

func (r Rational) IsZero() bool { return r.num == 0 }

func (r Rational) Equal(o Rational) bool { return r == o }

// Ticks returns the value in ticks, truncated toward zero when the value is
// not representable at 96 ticks per quarter (e.g. some tuplets).
func (r Rational) Ticks() int64 {
	return r.num * constants.WholeTicks / r.Den()
}

func Min(a, b Rational) Rational {
	if b.Less(a) {
		return b
	}
	return a
}

func Max(a, b Rational) Rational {
	if a.Less(b) {
		return b
	}
	return a
}

func (r Rational) String() string {
	if r.denM1 == 0 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.Den())
}

// MarshalText encodes the value as "num/den" so results stay exact in JSON.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rational) UnmarshalText(text []byte) error {
	var num, den int64
	if _, err := fmt.Sscanf(string(text), "%d/%d", &num, &den); err != nil {
		if _, err := fmt.Sscanf(string(text), "%d", &num); err != nil {
			return fmt.Errorf("invalid rational %q: %w", text, err)
		}
		den = 1
	}
	if den == 0 {
		return fmt.Errorf("invalid rational %q: zero denominator", text)
	}
	*r = New(num, den)
	return nil
}
