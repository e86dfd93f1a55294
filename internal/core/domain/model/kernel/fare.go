package kernel

import (
	"fmt"

	"mercuri/internal/pkg/errs"
	"mercuri/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// FareScale is the number of decimal places a fare is kept at.
const FareScale = 2

var ErrFareIsNotConstructed = errs.NewValueIsRequiredError("fare must be created via NewFare or ParseFare")

// Fare is a non-negative amount in the marketplace currency, rounded half away from zero
// to FareScale places.
type Fare struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

func NewFare(amount decimal.Decimal) (Fare, error) {
	if amount.IsNegative() {
		return Fare{}, errs.NewValueIsInvalidErrorWithCause(
			"fare", fmt.Errorf("%s is negative", amount.String()))
	}

	return Fare{
		amount: amount.Round(FareScale),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// ParseFare accepts the decimal string form used on the wire ("12.50").
func ParseFare(s string) (Fare, error) {
	if s == "" {
		return Fare{}, errs.NewValueIsRequiredError("fare")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Fare{}, errs.NewValueIsInvalidErrorWithCause("fare", err)
	}

	return NewFare(amount)
}

func (f Fare) Validate() error {
	return f.guard.Validate(ErrFareIsNotConstructed)
}

func (f Fare) Amount() decimal.Decimal {
	return f.amount
}

func (f Fare) IsZero() bool {
	return f.amount.IsZero()
}

// Multiply scales the fare and re-rounds; used by the fare policy's multiplier hook.
func (f Fare) Multiply(multiplier decimal.Decimal) (Fare, error) {
	if err := f.Validate(); err != nil {
		return Fare{}, err
	}

	return NewFare(f.amount.Mul(multiplier))
}

func (f Fare) IsEqual(other Fare) bool {
	return f.amount.Equal(other.amount)
}

// String renders the fare with exactly FareScale decimals.
func (f Fare) String() string {
	return f.amount.StringFixed(FareScale)
}

func (f Fare) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fare) UnmarshalText(b []byte) error {
	parsed, err := ParseFare(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
