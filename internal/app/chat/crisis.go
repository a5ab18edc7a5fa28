package chat

import (
	"github.com/serenitylabs/serenity-agent/internal/app/exercise"
	"github.com/serenitylabs/serenity-agent/internal/domain"
)

// CrisisAdvice tells the caller whether the turn's mood warrants a
// calming exercise and whether the offer should be forced.
type CrisisAdvice struct {
	Exercise exercise.Kind
	Forced   bool
}

// AdviseCrisis derives the crisis affordance purely from the mood tag.
func AdviseCrisis(mood domain.MoodTag) CrisisAdvice {
	switch mood {
	case domain.MoodSeriousDistress:
		return CrisisAdvice{Exercise: exercise.KindGrounding, Forced: true}
	case domain.MoodAnxious:
		return CrisisAdvice{Exercise: exercise.KindPanic, Forced: false}
	default:
		return CrisisAdvice{Exercise: exercise.KindNone}
	}
}
