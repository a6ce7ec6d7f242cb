package leave

import (
	"errors"
	"math"
	"time"
)

// InclusiveDays returns the day count of a leave spanning start up to the day
// before resume; resume is the first day back at work, not a day of leave.
func InclusiveDays(start, resume time.Time) (int, error) {
	if resume.Before(start) {
		return 0, errors.New("resume date before start date")
	}
	return int(math.Ceil(resume.Sub(start).Hours() / 24)), nil
}
