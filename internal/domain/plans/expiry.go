package plans

import "time"

// PlanDuration is how long a single purchase keeps a plan active.
const PlanDuration = 30 * 24 * time.Hour

// NextExpiry computes the plan expiry after a purchase.
//
// Buying the same plan while it is still active stacks another 30 days on top
// of the existing expiry. Anything else — a different plan, no expiry on
// record, or an expiry that has already passed — resets the clock to
// now + 30 days. The comparison is strictly after: an expiry equal to now
// counts as lapsed.
func NextExpiry(currentPlan string, currentExpiry *time.Time, newPlan string, now time.Time) time.Time {
	if newPlan == currentPlan && currentExpiry != nil && currentExpiry.After(now) {
		return currentExpiry.Add(PlanDuration)
	}
	return now.Add(PlanDuration)
}
