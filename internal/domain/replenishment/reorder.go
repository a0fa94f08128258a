package replenishment

import (
	"fmt"
	"math"

	"github.com/flexiwear/backend/internal/domain/shared"
)

// zScores maps a supported service level (percent) to its standard normal
// z-score. Levels outside this table are rejected, not interpolated.
var zScores = map[int]float64{
	90: 1.28,
	95: 1.65,
	99: 2.33,
}

// DefaultServiceLevel is the target probability (percent) of not stocking
// out during the lead-time window
const DefaultServiceLevel = 95

// DefaultRestockMultiplier models restocking to twice the reorder point,
// giving one full reorder cycle of buffer. A deliberate policy constant.
const DefaultRestockMultiplier = 2

// Policy holds the reorder-point parameters. Passed in explicitly at
// construction time rather than read from ambient configuration.
type Policy struct {
	ServiceLevel      int // percent: 90, 95 or 99
	RestockMultiplier int // target stock as a multiple of the reorder point
}

// DefaultPolicy returns the standard 95% service level policy
func DefaultPolicy() Policy {
	return Policy{
		ServiceLevel:      DefaultServiceLevel,
		RestockMultiplier: DefaultRestockMultiplier,
	}
}

// Validate checks the policy parameters
func (p Policy) Validate() error {
	if _, ok := zScores[p.ServiceLevel]; !ok {
		return shared.NewDomainError(shared.CodeInvalidServiceLevel,
			fmt.Sprintf("Unsupported service level %d%%, supported levels are 90, 95 and 99", p.ServiceLevel))
	}
	if p.RestockMultiplier < 1 {
		return shared.NewDomainError("INVALID_POLICY", "Restock multiplier must be at least 1")
	}
	return nil
}

// Plan is the output of a reorder-point computation
type Plan struct {
	ReorderPoint int
	SafetyStock  int
	SuggestedQty int
}

// Compute combines demand statistics with the supplier lead time into a
// reorder point and suggested order quantity:
//
//	reorderPoint = dailyMean*leadTime + z*stdDev*sqrt(leadTime)
//	suggestedQty = max(0, reorderPoint*multiplier - onHand)
//
// Results round up to whole units. A zero lead time is legal (same-day
// supplier): the reorder point collapses to the safety-stock term, which is
// then also zero since sqrt(0) = 0.
func (p Policy) Compute(stats DemandStats, leadTimeDays, onHand int) (Plan, error) {
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	if leadTimeDays < 0 {
		return Plan{}, shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if stats.DailyMean < 0 || stats.DailyStdDev < 0 {
		return Plan{}, shared.NewDomainError("INVALID_INPUT", "Demand statistics cannot be negative")
	}

	z := zScores[p.ServiceLevel]
	lead := float64(leadTimeDays)

	safety := z * stats.DailyStdDev * math.Sqrt(lead)
	rop := int(math.Ceil(stats.DailyMean*lead + safety))
	if rop < 0 {
		rop = 0
	}

	suggested := rop*p.RestockMultiplier - onHand
	if suggested < 0 {
		suggested = 0
	}

	return Plan{
		ReorderPoint: rop,
		SafetyStock:  int(math.Ceil(safety)),
		SuggestedQty: suggested,
	}, nil
}

// DaysOfCover returns how many days the on-hand stock lasts at the mean
// demand rate. Returns +Inf when there is no demand.
func DaysOfCover(onHand int, dailyMean float64) float64 {
	if dailyMean <= 0 {
		return math.Inf(1)
	}
	return float64(onHand) / dailyMean
}
