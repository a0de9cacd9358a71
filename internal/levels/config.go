package levels

import "time"

// Config holds the pacing of every trial.
type Config struct {
	MatchDelay   time.Duration // both cards shown before comparison
	EarthAdvance time.Duration

	WaterStartDelay time.Duration
	WaterBaseDelay  time.Duration // before the first flash of a playback
	WaterStepPace   time.Duration
	WaterRoundDelay time.Duration
	WaterFailDelay  time.Duration
	WaterAdvance    time.Duration
	WaterRounds     int
	WaterPositions  int

	FireMarkers    int
	FireSetupDelay time.Duration
	FireStormHalf  time.Duration // the hidden marker disappears at the storm midpoint
	FireHitRadius  float64
	FireWinScore   int
	FireNextDelay  time.Duration
	FireRetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MatchDelay:   800 * time.Millisecond,
		EarthAdvance: 2 * time.Second,

		WaterStartDelay: 1 * time.Second,
		WaterBaseDelay:  500 * time.Millisecond,
		WaterStepPace:   700 * time.Millisecond,
		WaterRoundDelay: 1 * time.Second,
		WaterFailDelay:  1 * time.Second,
		WaterAdvance:    2 * time.Second,
		WaterRounds:     5,
		WaterPositions:  5,

		FireMarkers:    5,
		FireSetupDelay: 2500 * time.Millisecond,
		FireStormHalf:  600 * time.Millisecond,
		FireHitRadius:  70,
		FireWinScore:   5,
		FireNextDelay:  1 * time.Second,
		FireRetryDelay: 1500 * time.Millisecond,
	}
}
