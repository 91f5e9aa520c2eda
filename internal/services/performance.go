package services

// PerformanceTier is the qualitative bucket for a quiz percentage.
type PerformanceTier string

const (
	TierExcellent PerformanceTier = "excellent"
	TierVeryGood  PerformanceTier = "very_good"
	TierGood      PerformanceTier = "good"
	TierAverage   PerformanceTier = "average"
	TierPoor      PerformanceTier = "poor"
)

// ClassifyPerformance maps a percentage in [0,100] to a tier and message.
// Rules are checked in order; the exact-100 case must precede the >=80 one
// or a perfect score would land in very_good.
func ClassifyPerformance(percentage int) (PerformanceTier, string) {
	switch {
	case percentage == 100:
		return TierExcellent, "Excellent! Outstanding performance."
	case percentage >= 80:
		return TierVeryGood, "Very Good! Great job."
	case percentage >= 60:
		return TierGood, "Good! Keep practicing."
	case percentage >= 40:
		return TierAverage, "Average. You can improve."
	default:
		return TierPoor, "Needs Improvement. Study and try again."
	}
}
