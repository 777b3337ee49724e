package grading

import "testing"

func TestNormalizeSentence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"space before period", "I am not a boy .", "i am not a boy."},
		{"no artifacts", "I am not a boy.", "i am not a boy."},
		{"comma and question mark", "Yes , are you ?", "yes, are you?"},
		{"surrounding whitespace", "  Hello !  ", "hello!"},
		{"casefold only", "This Is FINE.", "this is fine."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeSentence(tc.in); got != tc.want {
				t.Errorf("normalizeSentence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestUnwrapJSONString(t *testing.T) {
	if got := unwrapJSONString(`"I am a boy ."`); got != "I am a boy ." {
		t.Errorf("quoted payload: got %q", got)
	}
	if got := unwrapJSONString("plain text"); got != "plain text" {
		t.Errorf("plain payload: got %q", got)
	}
}

func TestSplitAlternatives(t *testing.T) {
	got := splitAlternatives("Apple, banana ,CHERRY,,")
	want := []string{"apple", "banana", "cherry"}
	if !equalStrings(got, want) {
		t.Errorf("splitAlternatives: got %v, want %v", got, want)
	}
}

func TestSortedTrimmed(t *testing.T) {
	got := sortedTrimmed([]string{" b ", "a", "", "C"})
	want := []string{"C", "a", "b"}
	if !equalStrings(got, want) {
		t.Errorf("sortedTrimmed: got %v, want %v", got, want)
	}
}
