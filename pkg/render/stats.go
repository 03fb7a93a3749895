package render

// SamplerStats counts what happened to every seed a sampler drew.
type SamplerStats struct {
	Attempts int64 // seeds drawn
	Bounded  int64 // rejected by the cardioid/bulb test without iterating
	Cycled   int64 // stopped early on a repeated checkpoint value
	Captive  int64 // exhausted the iteration budget without escaping
	Short    int64 // escaped in fewer than MinIterations steps
	Emitted  int64 // valid trajectories produced
}

func (s *SamplerStats) Add(o SamplerStats) {
	s.Attempts += o.Attempts
	s.Bounded += o.Bounded
	s.Cycled += o.Cycled
	s.Captive += o.Captive
	s.Short += o.Short
	s.Emitted += o.Emitted
}

// Yield is the fraction of drawn seeds that produced a trajectory.
func (s SamplerStats) Yield() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Emitted) / float64(s.Attempts)
}
