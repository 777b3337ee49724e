package grading

import (
	"mquest_backend/internal/model"
)

// Score クエストの全問題を保存順に採点して集計する。
// クリア判定は全問正解のみ（部分点は結果表示にだけ現れる）
func Score(questions []model.Question, sub Submission) Result {
	result := Result{
		Results:    make([]Verdict, 0, len(questions)),
		AllCorrect: true,
		Total:      len(questions),
	}

	for i, q := range questions {
		verdict := Grade(q, i, sub)
		result.Results = append(result.Results, verdict)
		if verdict.Correct {
			result.Score++
		} else {
			result.AllCorrect = false
		}
		if verdict.NeedsManual {
			result.NeedsManual = true
		}
	}

	if len(questions) == 0 {
		result.AllCorrect = false
	}
	return result
}
