package domain

import "testing"

func TestWebSession_Merge(t *testing.T) {
	ws := WebSession{"session_id": "abc", "locale": "en_US"}
	ws.Merge(WebSession{"locale": "fr_FR", "uid": 7})

	if ws["locale"] != "fr_FR" {
		t.Errorf("expected later write to win, got %v", ws["locale"])
	}
	if ws.SessionID() != "abc" {
		t.Errorf("SessionID() = %q, want abc", ws.SessionID())
	}
	if ws["uid"] != 7 {
		t.Errorf("expected uid to be merged, got %v", ws["uid"])
	}
}

func TestWebSession_Clone(t *testing.T) {
	var nilSession WebSession
	if c := nilSession.Clone(); c == nil {
		t.Fatal("Clone() of nil must be non-nil")
	}

	orig := WebSession{"a": 1}
	c := orig.Clone()
	c["a"] = 2
	if orig["a"] != 1 {
		t.Error("Clone() shares storage with the original")
	}
}

func TestWebSession_CloneNested(t *testing.T) {
	orig := WebSession{
		"context": map[string]any{"lang": "en_US"},
		"groups":  []any{"sales", map[string]any{"id": 1}},
	}
	c := orig.Clone()
	c["context"].(map[string]any)["lang"] = "fr_FR"
	c["groups"].([]any)[1].(map[string]any)["id"] = 2

	if orig.Locale() != "en_US" {
		t.Errorf("nested map shared with the clone, Locale() = %q", orig.Locale())
	}
	if orig["groups"].([]any)[1].(map[string]any)["id"] != 1 {
		t.Error("nested slice shared with the clone")
	}
}

func TestWebSession_MergeDoesNotAlias(t *testing.T) {
	payload := WebSession{"context": map[string]any{"lang": "en_US"}}
	ws := WebSession{}
	ws.Merge(payload)

	payload["context"].(map[string]any)["lang"] = "fr_FR"
	if ws.Locale() != "en_US" {
		t.Errorf("Merge kept a reference to the payload, Locale() = %q", ws.Locale())
	}
}

func TestWebSession_Locale(t *testing.T) {
	tests := []struct {
		name string
		ws   WebSession
		want string
	}{
		{"explicit", WebSession{"locale": "pt_BR"}, "pt_BR"},
		{"from context", WebSession{"context": map[string]any{"lang": "de_DE"}}, "de_DE"},
		{"none", WebSession{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ws.Locale(); got != tt.want {
				t.Errorf("Locale() = %q, want %q", got, tt.want)
			}
		})
	}
}
