package services

import (
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// FarePolicy scales an order's suggested cost into the fare offered to riders.
type FarePolicy interface {
	Multiplier(o *order.Order) decimal.Decimal
}

// FlatFarePolicy is the supply/demand hook in its disabled form: it always returns 1.
type FlatFarePolicy struct{}

func (FlatFarePolicy) Multiplier(*order.Order) decimal.Decimal {
	return decimal.NewFromInt(1)
}

// EffectiveFare is the suggested cost times the policy multiplier, rounded to two places.
func EffectiveFare(o *order.Order, policy FarePolicy) (kernel.Fare, error) {
	if err := o.Validate(); err != nil {
		return kernel.Fare{}, err
	}
	if policy == nil {
		policy = FlatFarePolicy{}
	}

	return o.SuggestedCost().Multiply(policy.Multiplier(o))
}
