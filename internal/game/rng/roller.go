package rng

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged rolls for combat
// resolution. All rolls are logged at debug level with their inputs and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Between returns a uniform random int in [min, max] and logs it.
//
// Postcondition: min <= result <= max.
func (r *Roller) Between(min, max int) int {
	v := Between(r.src, min, max)
	r.logger.Debug("range roll",
		zap.Int("min", min),
		zap.Int("max", max),
		zap.Int("result", v),
	)
	return v
}

// Chance performs a Bernoulli trial with probability p and logs the outcome.
func (r *Roller) Chance(p float64) bool {
	ok := Chance(r.src, p)
	r.logger.Debug("chance roll",
		zap.Float64("probability", p),
		zap.Bool("success", ok),
	)
	return ok
}
