// Package catalog holds the read-only view of exercises and questions that a
// single turn works against.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/wordfinding-api/internal/domain"
	"github.com/phrazzld/wordfinding-api/internal/store"
)

// Snapshot is an immutable copy of the catalog. Exercises and questions are
// kept in catalog order: position, then creation time, then ID.
//
// Disabled exercises are part of the snapshot so that a session opened
// before an exercise was disabled can still be finished.
type Snapshot struct {
	exercises    []*domain.Exercise
	exerciseByID map[uuid.UUID]*domain.Exercise
	questions    map[uuid.UUID][]*domain.Question
	questionByID map[uuid.UUID]*domain.Question
}

// Load reads the whole catalog through the given stores. Pass transaction-bound
// stores to get a snapshot consistent with the rest of the unit of work.
func Load(
	ctx context.Context,
	exercises store.ExerciseStore,
	questions store.QuestionStore,
) (*Snapshot, error) {
	es, err := exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercises: %w", err)
	}
	qs, err := questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return New(es, qs), nil
}

// New builds a Snapshot from the given entities. The inputs are copied, so
// later changes to them do not affect the snapshot. Questions whose exercise
// is not among exercises are dropped.
func New(exercises []*domain.Exercise, questions []*domain.Question) *Snapshot {
	s := &Snapshot{
		exerciseByID: make(map[uuid.UUID]*domain.Exercise, len(exercises)),
		questions:    make(map[uuid.UUID][]*domain.Question, len(exercises)),
		questionByID: make(map[uuid.UUID]*domain.Question, len(questions)),
	}

	for _, e := range exercises {
		c := *e
		s.exercises = append(s.exercises, &c)
		s.exerciseByID[c.ID] = &c
	}
	sort.SliceStable(s.exercises, func(i, j int) bool {
		a, b := s.exercises[i], s.exercises[j]
		return before(a.Position, b.Position, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})

	for _, q := range questions {
		if _, ok := s.exerciseByID[q.ExerciseID]; !ok {
			continue
		}
		c := *q
		c.Answers = append([]string(nil), q.Answers...)
		s.questions[c.ExerciseID] = append(s.questions[c.ExerciseID], &c)
		s.questionByID[c.ID] = &c
	}
	for _, qs := range s.questions {
		sort.SliceStable(qs, func(i, j int) bool {
			a, b := qs[i], qs[j]
			return before(a.Position, b.Position, a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
		})
	}

	return s
}

func before(posA, posB int, createdA, createdB int64, idA, idB uuid.UUID) bool {
	if posA != posB {
		return posA < posB
	}
	if createdA != createdB {
		return createdA < createdB
	}
	return idA.String() < idB.String()
}

// Exercises returns every exercise in catalog order.
func (s *Snapshot) Exercises() []*domain.Exercise {
	return append([]*domain.Exercise(nil), s.exercises...)
}

// EnabledExercises returns the exercises a new session may pick, in catalog order.
func (s *Snapshot) EnabledExercises() []*domain.Exercise {
	var enabled []*domain.Exercise
	for _, e := range s.exercises {
		if e.Enabled {
			enabled = append(enabled, e)
		}
	}
	return enabled
}

// Exercise looks up an exercise by ID.
func (s *Snapshot) Exercise(id uuid.UUID) (*domain.Exercise, bool) {
	e, ok := s.exerciseByID[id]
	return e, ok
}

// Questions returns the questions of an exercise in catalog order.
func (s *Snapshot) Questions(exerciseID uuid.UUID) []*domain.Question {
	return append([]*domain.Question(nil), s.questions[exerciseID]...)
}

// Question looks up a question by ID.
func (s *Snapshot) Question(id uuid.UUID) (*domain.Question, bool) {
	q, ok := s.questionByID[id]
	return q, ok
}
