package estimator

const smoothingWindow = 3

// Smoother is a moving average over the last three values, most recent first.
// The zero value is not seeded; the first Add fills every slot.
type Smoother struct {
	slots  [smoothingWindow]float64
	seeded bool
}

func NewSmoother() *Smoother {
	return &Smoother{}
}

// Add shifts the history back, inserts x and returns the mean. The seeding
// call returns x itself; summing three copies is not exact in floating point.
func (s *Smoother) Add(x float64) float64 {
	if !s.seeded {
		for i := range s.slots {
			s.slots[i] = x
		}
		s.seeded = true
		return x
	}
	copy(s.slots[1:], s.slots[:smoothingWindow-1])
	s.slots[0] = x

	var sum float64
	for _, v := range s.slots {
		sum += v
	}
	return sum / smoothingWindow
}

// History returns the window contents, most recent first.
func (s *Smoother) History() [smoothingWindow]float64 {
	return s.slots
}
