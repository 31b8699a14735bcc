package workflow

import "errors"

var (
	// ErrUnknownStage is returned when a stage id is not in the directory.
	ErrUnknownStage = errors.New("unknown workflow stage")

	// ErrNoNextStage is returned when transitioning from the terminal stage
	// without an explicit target.
	ErrNoNextStage = errors.New("no next stage defined")

	// ErrInvalidStageTransition is returned when an explicit target is not
	// the immediate successor of the current stage. Skipping ahead requires
	// ForceTransition.
	ErrInvalidStageTransition = errors.New("invalid stage transition")

	// ErrInvalidRange is returned when a duration estimate is requested with
	// the range backwards.
	ErrInvalidRange = errors.New("invalid stage range")
)

func IsUnknownStage(err error) bool {
	return errors.Is(err, ErrUnknownStage)
}

func IsNoNextStage(err error) bool {
	return errors.Is(err, ErrNoNextStage)
}

func IsInvalidStageTransition(err error) bool {
	return errors.Is(err, ErrInvalidStageTransition)
}

func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}
