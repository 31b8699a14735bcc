package automation

import "errors"

// ErrNoEligibleStaff is returned when no staff member passes the capacity
// and skill filters. The caller decides whether to retry with a relaxed
// roster or leave the task unassigned; the engine never picks arbitrarily.
var ErrNoEligibleStaff = errors.New("no eligible staff member for task")

func IsNoEligibleStaff(err error) bool {
	return errors.Is(err, ErrNoEligibleStaff)
}
