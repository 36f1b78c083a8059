package loan

import (
	"fmt"
	"math"
)

// balanceTolerance absorbs cent rounding in upstream schedules.
const balanceTolerance = 0.011

// CheckSchedule verifies the amortization invariants of rows and returns one
// message per violation: months strictly ascending, ending = opening - principal,
// and each opening equal to the previous ending.
func CheckSchedule(name string, rows []AmortizationRow) []string {
	var problems []string
	for i, r := range rows {
		if diff := math.Abs(r.OpeningBalance - r.Principal - r.EndingBalance); diff > balanceTolerance {
			problems = append(problems, fmt.Sprintf("%s[%d]: ending_balance %.2f != opening_balance %.2f - principal %.2f",
				name, i, r.EndingBalance, r.OpeningBalance, r.Principal))
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		if r.Month <= prev.Month {
			problems = append(problems, fmt.Sprintf("%s[%d]: month %d not after %d", name, i, r.Month, prev.Month))
		}
		if diff := math.Abs(r.OpeningBalance - prev.EndingBalance); diff > balanceTolerance {
			problems = append(problems, fmt.Sprintf("%s[%d]: opening_balance %.2f != previous ending_balance %.2f",
				name, i, r.OpeningBalance, prev.EndingBalance))
		}
	}
	return problems
}

// Check runs CheckSchedule over the portfolio schedule and every per-asset schedule.
func (s Schedule) Check() []string {
	problems := CheckSchedule("schedule.portfolio", s.Portfolio)
	for sym, rows := range s.Assets {
		problems = append(problems, CheckSchedule("schedule.assets."+sym, rows)...)
	}
	return problems
}
