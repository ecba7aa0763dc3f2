package transport

import (
	"encoding/json"
	"testing"
)

func TestScreeningScoreTriState(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantSet bool
		wantNil bool
		want    int
	}{
		{name: "omitted", body: `{}`, wantSet: false, wantNil: true},
		{name: "explicit null", body: `{"screeningScore":null}`, wantSet: true, wantNil: true},
		{name: "value", body: `{"screeningScore":82}`, wantSet: true, want: 82},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req UpdateApplicationRequest
			if err := json.Unmarshal([]byte(tc.body), &req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.ScreeningScore.Set != tc.wantSet {
				t.Fatalf("Set = %v, want %v", req.ScreeningScore.Set, tc.wantSet)
			}
			if tc.wantNil {
				if req.ScreeningScore.Value != nil {
					t.Fatalf("expected nil value, got %d", *req.ScreeningScore.Value)
				}
				return
			}
			if req.ScreeningScore.Value == nil || *req.ScreeningScore.Value != tc.want {
				t.Fatalf("unexpected value %v", req.ScreeningScore.Value)
			}
		})
	}
}

func TestScreeningScoreRejectsText(t *testing.T) {
	var req UpdateApplicationRequest
	if err := json.Unmarshal([]byte(`{"screeningScore":"high"}`), &req); err == nil {
		t.Fatal("expected error for non-numeric score")
	}
}
