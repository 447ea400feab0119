package practice

import (
	"math/rand"
	"sync"
	"time"

	"github.com/phrazzld/wordfinding-api/internal/domain"
)

// ExercisePicker chooses the exercise for a new session from a non-empty list
// of candidates given in catalog order.
type ExercisePicker interface {
	Pick(candidates []*domain.Exercise) *domain.Exercise
}

// FirstPicker picks the first candidate, which makes selection follow catalog order.
type FirstPicker struct{}

// Pick implements ExercisePicker.
func (FirstPicker) Pick(candidates []*domain.Exercise) *domain.Exercise {
	return candidates[0]
}

// RandomPicker picks uniformly at random. It is safe for concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker creates a RandomPicker. A zero seed seeds from the clock;
// any other seed makes the sequence of picks reproducible.
func NewRandomPicker(seed int64) *RandomPicker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPicker{rng: rand.New(rand.NewSource(seed))}
}

// Pick implements ExercisePicker.
func (p *RandomPicker) Pick(candidates []*domain.Exercise) *domain.Exercise {
	p.mu.Lock()
	defer p.mu.Unlock()
	return candidates[p.rng.Intn(len(candidates))]
}

// NewPicker returns the picker for a configured exercise order.
func NewPicker(order string, seed int64) ExercisePicker {
	if order == "random" {
		return NewRandomPicker(seed)
	}
	return FirstPicker{}
}
