package grading

import (
	"encoding/json"
	"sort"
	"strings"
)

// 並べ替え問題はトークンをスペース連結した文として保存・提出される。
// トークナイザ由来の「句読点前スペース」を潰してから小文字で比較する
var punctSpaces = strings.NewReplacer(" .", ".", " ,", ",", " ?", "?", " !", "!")

// normalizeSentence 並べ替え問題（sort）用の正規化
func normalizeSentence(s string) string {
	return strings.ToLower(punctSpaces.Replace(strings.TrimSpace(s)))
}

// unwrapJSONString payloadはJSON文字列として保存されている場合と
// 素の文字列の場合がある。JSON文字列ならデコードした中身を返す
func unwrapJSONString(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}

// splitAlternatives カンマ区切りの複数正答をトリム＋小文字化して返す
func splitAlternatives(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sortedTrimmed 大文字小文字を保ったままトリムしてソートする
// （multiple_choiceの集合比較用）
func sortedTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rawValueString JSONの数値・文字列どちらで保存されていても
// 表示・比較用の文字列に揃える
func rawValueString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
