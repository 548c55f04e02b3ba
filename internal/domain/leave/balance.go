package leave

// ComputeBalances derives the per-type balance from approved requests
// against the annual allotment table. Requests of types missing from the
// table are ignored and remaining never drops below zero.
func ComputeBalances(approved []LeaveRequest, allotments map[LeaveType]float64) []Balance {
	used := make(map[LeaveType]float64)
	for _, r := range approved {
		if r.Status != LeaveRequestStatusApproved {
			continue
		}
		used[r.Type] += r.TotalDays
	}

	balances := make([]Balance, 0, len(allotments))
	for _, t := range LeaveTypes {
		total, ok := allotments[t]
		if !ok {
			continue
		}
		remaining := total - used[t]
		if remaining < 0 {
			remaining = 0
		}
		balances = append(balances, Balance{
			Type:      t,
			Total:     total,
			Used:      used[t],
			Remaining: remaining,
		})
	}
	return balances
}

// FindBalance returns the balance entry for t, if the type has an allotment.
func FindBalance(balances []Balance, t LeaveType) (Balance, bool) {
	for _, b := range balances {
		if b.Type == t {
			return b, true
		}
	}
	return Balance{}, false
}
