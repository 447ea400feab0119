package store

import "database/sql"

// The fakes embed the interfaces they stand in for; only WithTx is exercised.

type fakeExerciseStore struct {
	ExerciseStore
	tx *sql.Tx
}

func (f *fakeExerciseStore) WithTx(tx *sql.Tx) ExerciseStore { return &fakeExerciseStore{tx: tx} }

type fakeQuestionStore struct {
	QuestionStore
	tx *sql.Tx
}

func (f *fakeQuestionStore) WithTx(tx *sql.Tx) QuestionStore { return &fakeQuestionStore{tx: tx} }

type fakeUserStore struct {
	UserStore
	tx *sql.Tx
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) UserStore { return &fakeUserStore{tx: tx} }

type fakeSessionStore struct {
	SessionStore
	tx *sql.Tx
}

func (f *fakeSessionStore) WithTx(tx *sql.Tx) SessionStore { return &fakeSessionStore{tx: tx} }

type fakeAttemptStore struct {
	AttemptStore
	tx *sql.Tx
}

func (f *fakeAttemptStore) WithTx(tx *sql.Tx) AttemptStore { return &fakeAttemptStore{tx: tx} }
