package grading

import (
	"testing"

	"mquest_backend/internal/model"
)

func twoChoiceQuest() []model.Question {
	q0 := choiceQuestion(10, "1")
	q1 := choiceQuestion(11, "3")
	return []model.Question{q0, q1}
}

func TestScoreAllCorrect(t *testing.T) {
	result := Score(twoChoiceQuest(), submission(map[string]string{"q0": "1", "q1": "3"}))

	if !result.AllCorrect {
		t.Error("expected allCorrect")
	}
	if result.Score != 2 || result.Total != 2 {
		t.Errorf("score/total = %d/%d, want 2/2", result.Score, result.Total)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(result.Results))
	}
	if result.Results[0].QuestionID != 10 || result.Results[1].QuestionID != 11 {
		t.Error("verdicts not in stored question order")
	}
}

func TestScorePartialCredit(t *testing.T) {
	result := Score(twoChoiceQuest(), submission(map[string]string{"q0": "0", "q1": "3"}))

	if result.AllCorrect {
		t.Error("partial credit must not clear the quest")
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("score/total = %d/%d, want 1/2", result.Score, result.Total)
	}
	if result.Results[0].Correct || !result.Results[1].Correct {
		t.Errorf("per-question verdicts wrong: %+v", result.Results)
	}
}

func TestScoreMalformedQuestionDoesNotAbort(t *testing.T) {
	questions := twoChoiceQuest()
	broken := model.Question{Type: model.QuestionNumeric, Answer: "{bad"}
	broken.ID = 12
	questions = append(questions, broken)

	result := Score(questions, submission(map[string]string{"q0": "1", "q1": "3"}))
	if result.Total != 3 || result.Score != 2 {
		t.Errorf("score/total = %d/%d, want 2/3", result.Score, result.Total)
	}
	if result.AllCorrect {
		t.Error("quest with a malformed question cannot be all correct")
	}
	if result.Results[2].DataError == "" {
		t.Error("malformed question should surface its diagnostic in the breakdown")
	}
}

func TestScoreManualQuestionPropagates(t *testing.T) {
	questions := []model.Question{{Type: model.QuestionFunctionGraph, Answer: "[]"}}
	result := Score(questions, Submission{})
	if !result.NeedsManual {
		t.Error("needsManual not propagated from verdict")
	}
	if result.AllCorrect {
		t.Error("manual-only quest must not auto-clear")
	}
}

func TestScoreEmptyQuest(t *testing.T) {
	result := Score(nil, Submission{})
	if result.AllCorrect {
		t.Error("empty quest must not be clearable")
	}
	if result.Total != 0 || result.Score != 0 {
		t.Errorf("score/total = %d/%d, want 0/0", result.Score, result.Total)
	}
}
