package grading

import (
	"encoding/json"
	"strconv"
	"strings"

	"mquest_backend/internal/model"
)

// Grade 1問を採点する。indexはクエスト内の表示順（フィールドキーの組み立てに使う）。
// 正答payloadが壊れている・種別が未知の場合もパニックせず、不正解＋診断付きの
// Verdictとして返す（採点パス全体は止めない）
func Grade(q model.Question, index int, sub Submission) Verdict {
	v := Verdict{
		QuestionID: q.ID,
		Type:       q.Type,
	}

	switch q.Type {
	case model.QuestionChoice:
		gradeChoice(&v, q, index, sub)
	case model.QuestionMultipleChoice:
		gradeMultipleChoice(&v, q, index, sub)
	case model.QuestionSort:
		gradeSort(&v, q, index, sub)
	case model.QuestionFillInBlankEn:
		gradeFillInBlank(&v, q, index, sub)
	case model.QuestionNumeric:
		gradeNumeric(&v, q, index, sub)
	case model.QuestionSVGInteractive:
		gradeSVGInteractive(&v, q, index, sub)
	case model.QuestionFunctionGraph:
		gradeFunctionGraph(&v, q, index, sub)
	default:
		err := &UnsupportedTypeError{QuestionID: q.ID, Type: q.Type}
		v.UserAnswer = sub.Get(FieldKey(index))
		v.Expected = "この問題形式は採点できません"
		v.DataError = err.Error()
	}
	return v
}

func markMalformed(v *Verdict, q model.Question, reason string) {
	err := &MalformedAnswerError{QuestionID: q.ID, Type: q.Type, Reason: reason}
	v.Correct = false
	v.Expected = "解答データを読み込めませんでした"
	v.DataError = err.Error()
}

// gradeChoice 正答はゼロ始まりのインデックス。選択肢リストの範囲内で
// あることを検証してから、提出値と数値で比較する
func gradeChoice(v *Verdict, q model.Question, index int, sub Submission) {
	user := strings.TrimSpace(sub.Get(FieldKey(index)))
	v.UserAnswer = user

	var choices []string
	if err := json.Unmarshal([]byte(q.Choices), &choices); err != nil {
		markMalformed(v, q, "choices payload is not a JSON string list")
		return
	}

	answerIdx, err := parseAnswerIndex(q.Answer)
	if err != nil {
		markMalformed(v, q, err.Error())
		return
	}
	if answerIdx < 0 || answerIdx >= len(choices) {
		markMalformed(v, q, "answer index out of range for choices list")
		return
	}

	v.Expected = strconv.Itoa(answerIdx)
	if userIdx, err := strconv.Atoi(user); err == nil {
		v.Correct = userIdx == answerIdx
	}
}

// parseAnswerIndex payloadはJSON数値（1）でも数値の文字列（"1"）でも良い
func parseAnswerIndex(raw string) (int, error) {
	var idx int
	if err := json.Unmarshal([]byte(raw), &idx); err == nil {
		return idx, nil
	}
	s := strings.TrimSpace(unwrapJSONString(raw))
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, &strconv.NumError{Func: "ParseAnswerIndex", Num: s, Err: strconv.ErrSyntax}
	}
	return idx, nil
}

func gradeMultipleChoice(v *Verdict, q model.Question, index int, sub Submission) {
	userSorted := sortedTrimmed(sub.List(FieldKey(index)))

	raw := strings.TrimSpace(unwrapJSONString(q.Answer))
	if raw == "" {
		markMalformed(v, q, "empty answer payload")
		return
	}
	expectedSorted := sortedTrimmed(strings.Split(raw, ","))

	v.Correct = equalStrings(userSorted, expectedSorted)
	v.UserAnswer = strings.Join(userSorted, ",")
	v.Expected = strings.Join(expectedSorted, ",")
}

func gradeSort(v *Verdict, q model.Question, index int, sub Submission) {
	user := strings.TrimSpace(sub.Get(FieldKey(index)))
	expected := strings.TrimSpace(unwrapJSONString(q.Answer))
	if expected == "" {
		v.UserAnswer = user
		markMalformed(v, q, "empty answer payload")
		return
	}

	v.UserAnswer = user
	v.Expected = expected
	v.Correct = normalizeSentence(user) == normalizeSentence(expected)
}

// gradeFillInBlank 正答はカンマ区切りで複数の許容解を持てる。
// どれか1つに一致すれば正解（大文字小文字は無視）
func gradeFillInBlank(v *Verdict, q model.Question, index int, sub Submission) {
	user := strings.ToLower(strings.TrimSpace(sub.Get(FieldKey(index))))
	v.UserAnswer = user

	raw := strings.TrimSpace(unwrapJSONString(q.Answer))
	alternatives := splitAlternatives(raw)
	if len(alternatives) == 0 {
		markMalformed(v, q, "no accepted answers in payload")
		return
	}

	v.Expected = raw
	for _, alt := range alternatives {
		if user == alt {
			v.Correct = true
			break
		}
	}
}

type numericAnswer struct {
	Label  string          `json:"label"`
	Answer json.RawMessage `json:"answer"`
}

// gradeNumeric サブ解答はラベル付きで順序固定。フィールドキーは q<i>_<位置>。
// 全サブ解答が一致して初めて正解。部分フィードバックを返すため途中で打ち切らない
func gradeNumeric(v *Verdict, q model.Question, index int, sub Submission) {
	var answers []numericAnswer
	if err := json.Unmarshal([]byte(q.Answer), &answers); err != nil {
		markMalformed(v, q, "answer payload is not a labeled answer list")
		return
	}
	if len(answers) == 0 {
		markMalformed(v, q, "empty labeled answer list")
		return
	}

	userValues := make([]LabeledValue, 0, len(answers))
	expectedValues := make([]LabeledValue, 0, len(answers))
	correct := true
	for j, ans := range answers {
		userVal := strings.TrimSpace(sub.Get(SubFieldKey(index, strconv.Itoa(j))))
		expectedVal := rawValueString(ans.Answer)
		userValues = append(userValues, LabeledValue{Label: ans.Label, Value: userVal})
		expectedValues = append(expectedValues, LabeledValue{Label: ans.Label, Value: expectedVal})
		if userVal != expectedVal {
			correct = false
		}
	}

	v.Correct = correct
	v.UserAnswer = userValues
	v.Expected = expectedValues
}

type svgSubQuestion struct {
	ID     string          `json:"id"`
	Prompt string          `json:"prompt"`
	Answer json.RawMessage `json:"answer"`
}

// gradeSVGInteractive SVG図中のサブ問題ごとに1値。キーは q<i>_<サブID>
func gradeSVGInteractive(v *Verdict, q model.Question, index int, sub Submission) {
	var subQuestions []svgSubQuestion
	if err := json.Unmarshal([]byte(q.Answer), &subQuestions); err != nil {
		markMalformed(v, q, "answer payload is not a sub-question list")
		return
	}
	if len(subQuestions) == 0 {
		markMalformed(v, q, "empty sub-question list")
		return
	}

	userValues := make([]LabeledValue, 0, len(subQuestions))
	expectedValues := make([]LabeledValue, 0, len(subQuestions))
	correct := true
	for _, sq := range subQuestions {
		userVal := strings.TrimSpace(sub.Get(SubFieldKey(index, sq.ID)))
		expectedVal := rawValueString(sq.Answer)
		userValues = append(userValues, LabeledValue{Label: sq.Prompt, Value: userVal})
		expectedValues = append(expectedValues, LabeledValue{Label: sq.Prompt, Value: expectedVal})
		if userVal != expectedVal {
			correct = false
		}
	}

	v.Correct = correct
	v.UserAnswer = userValues
	v.Expected = expectedValues
}

// gradeFunctionGraph 関数グラフには自動採点ルールがない。
// 不正解のまま手動採点待ちフラグを立てる
func gradeFunctionGraph(v *Verdict, q model.Question, index int, sub Submission) {
	var defs []interface{}
	if err := json.Unmarshal([]byte(q.Answer), &defs); err != nil {
		markMalformed(v, q, "answer payload is not a function definition list")
		return
	}

	v.NeedsManual = true
	v.UserAnswer = strings.TrimSpace(sub.Get(FieldKey(index)))
	v.Expected = "手動採点が必要です"
}
