package service

import (
	"math/rand"
	"testing"

	"finstar_backend/internal/model"
)

func TestPickQuestions(t *testing.T) {
	svc := &MatchService{Rand: rand.New(rand.NewSource(1))}
	questions := svc.pickQuestions()
	if len(questions) != questionsPerMatch {
		t.Fatalf("question count = %d, want %d", len(questions), questionsPerMatch)
	}
	seen := map[string]bool{}
	for _, q := range questions {
		if seen[q.ID] {
			t.Errorf("duplicate question %s", q.ID)
		}
		seen[q.ID] = true
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Errorf("question %s has invalid answer index %d", q.ID, q.CorrectAnswer)
		}
	}
}

func TestMatchWinner(t *testing.T) {
	match := &model.QuizMatch{Players: []model.MatchPlayer{
		{UID: "a", Score: 50},
		{UID: "b", Score: 30},
	}}
	if got := matchWinner(match); got != "a" {
		t.Errorf("winner = %s, want a", got)
	}

	match.Players[1].Score = 50
	if got := matchWinner(match); got != "tie" {
		t.Errorf("winner = %s, want tie", got)
	}

	match.Players[1].Score = 60
	if got := matchWinner(match); got != "b" {
		t.Errorf("winner = %s, want b", got)
	}
}

func TestSanitizedHidesAnswers(t *testing.T) {
	match := &model.QuizMatch{
		Questions: []model.QuizQuestion{quizQuestionBank[0], quizQuestionBank[1]},
	}
	view := match.Sanitized()
	for _, q := range view.Questions {
		if q.CorrectAnswer != -1 {
			t.Errorf("question %s leaks answer %d", q.ID, q.CorrectAnswer)
		}
	}
	// 原始对战不受影响
	if match.Questions[0].CorrectAnswer == -1 {
		t.Error("sanitizing must not mutate the source match")
	}
}
