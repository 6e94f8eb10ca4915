package service

import "math/rand/v2"

// CarPicker chooses an index in [0, n).
type CarPicker interface {
	Intn(n int) int
}

// RandomPicker picks uniformly at random.
type RandomPicker struct{}

// Intn returns a uniform index in [0, n). n must be positive.
func (RandomPicker) Intn(n int) int {
	return rand.IntN(n)
}

// Ensure RandomPicker implements CarPicker.
var _ CarPicker = RandomPicker{}
