package providers

import (
	"fmt"
	"sort"

	"github.com/gookit/validate"

	"chd/internal/progression"
	"chd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct-tag validation plus the progression checks that
// tags cannot express. All failures here are fatal configuration errors.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if err := progression.ValidateCurve(cv.conf.Progression.Curve); err != nil {
		return err
	}
	return cv.validateMilestones()
}

// validateMilestones requires milestone bonuses to strictly increase with
// the streak day, and every bonus to be positive.
func (cv *CnfValidator) validateMilestones() error {
	milestones := cv.conf.Progression.StreakMilestones
	days := make([]int, 0, len(milestones))
	for day, bonus := range milestones {
		if day < 1 {
			return fmt.Errorf("streak milestones: day must be >= 1, got %d", day)
		}
		if bonus <= 0 {
			return fmt.Errorf("streak milestones: bonus for day %d must be positive, got %d", day, bonus)
		}
		days = append(days, day)
	}
	sort.Ints(days)
	for i := 1; i < len(days); i++ {
		if milestones[days[i]] <= milestones[days[i-1]] {
			return fmt.Errorf("streak milestones: bonus for day %d must exceed bonus for day %d", days[i], days[i-1])
		}
	}
	return nil
}
