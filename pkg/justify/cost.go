package justify

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/tatweel/pkg/errors"
)

// CostPolicy scores a laid-out line. The path selector minimizes the sum of
// line costs, so a policy must never return a negative value.
type CostPolicy interface {
	Name() string
	Cost(l Line) float64
}

// Cost policy names accepted by [ParseCostPolicy].
const (
	CostPriority        = "priority"
	CostSquared         = "squared"
	CostKashidaWeighted = "kashida-weighted"
)

// PriorityCost raises each variation's deviation to the power priority+2, so
// moving a primary axis is cheaper than moving a secondary one by the same
// share of its range. Kashidas count as one more variation ranging over
// [0, 100] with ideal 0 and the lowest priority.
type PriorityCost struct{}

func (PriorityCost) Name() string { return CostPriority }

func (PriorityCost) Cost(l Line) float64 {
	c := 0.0
	for _, v := range l.Variations {
		c += math.Pow(v.Deviation(), float64(v.Priority+2))
	}
	if l.Kashidas > 0 {
		c += math.Pow(float64(l.Kashidas), float64(len(l.Variations)+2))
	}
	return c
}

// SquaredCost sums squared deviations and the squared kashida count,
// ignoring priorities.
type SquaredCost struct{}

func (SquaredCost) Name() string { return CostSquared }

func (SquaredCost) Cost(l Line) float64 {
	c := 0.0
	for _, v := range l.Variations {
		d := v.Deviation()
		c += d * d
	}
	k := float64(l.Kashidas)
	return c + k*k
}

// KashidaWeightedCost scales the priority cost by one plus the kashida count.
// A line without kashidas costs the same as under [PriorityCost].
type KashidaWeightedCost struct{}

func (KashidaWeightedCost) Name() string { return CostKashidaWeighted }

func (KashidaWeightedCost) Cost(l Line) float64 {
	return PriorityCost{}.Cost(l) * float64(1+l.Kashidas)
}

// Ensure the policies implement CostPolicy.
var (
	_ CostPolicy = PriorityCost{}
	_ CostPolicy = SquaredCost{}
	_ CostPolicy = KashidaWeightedCost{}
)

var costPolicies = map[string]CostPolicy{
	CostPriority:        PriorityCost{},
	CostSquared:         SquaredCost{},
	CostKashidaWeighted: KashidaWeightedCost{},
}

// ParseCostPolicy returns the policy registered under name. The empty string
// selects [PriorityCost].
func ParseCostPolicy(name string) (CostPolicy, error) {
	if name == "" {
		return PriorityCost{}, nil
	}
	if p, ok := costPolicies[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig,
		"unknown cost policy %q (want one of %s)", name, strings.Join(CostPolicyNames(), ", "))
}

// CostPolicyNames returns the registered policy names in sorted order.
func CostPolicyNames() []string {
	names := make([]string, 0, len(costPolicies))
	for n := range costPolicies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
