package controller

import (
	"reflect"
	"testing"
)

func TestSubmissionFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		want    map[string][]string
		wantErr bool
	}{
		{
			name: "string values",
			body: map[string]interface{}{"q0": "1", "q1": "I am not a boy."},
			want: map[string][]string{"q0": {"1"}, "q1": {"I am not a boy."}},
		},
		{
			name: "array value for multi select",
			body: map[string]interface{}{"q2": []interface{}{"りんご", "みかん"}},
			want: map[string][]string{"q2": {"りんご", "みかん"}},
		},
		{
			name: "numeric value is stringified",
			body: map[string]interface{}{"q0_0": float64(2), "q0_1": float64(7.5)},
			want: map[string][]string{"q0_0": {"2"}, "q0_1": {"7.5"}},
		},
		{
			name:    "non string array element",
			body:    map[string]interface{}{"q0": []interface{}{1, 2}},
			wantErr: true,
		},
		{
			name:    "nested object",
			body:    map[string]interface{}{"q0": map[string]interface{}{"a": "b"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := submissionFromJSON(tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(map[string][]string(got), tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
