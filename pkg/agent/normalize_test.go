package agent

import "testing"

func TestCleanRoutePrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no prefix", "The limitation period is six years.", "The limitation period is six years."},
		{"bang prefix", "law! The act provides...", "The act provides..."},
		{"colon prefix", "procedure: File the form first.", "File the form first."},
		{"bare label", "general I can help with that.", "I can help with that."},
		{"leading whitespace", "  law: Section 12 applies.", "Section 12 applies."},
		{"stacked labels", "law! law: Here is the answer.", "Here is the answer."},
		{"label only", "general!", ""},
		{"label mid-sentence untouched", "The law requires notice.", "The law requires notice."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanRoutePrefix(tt.in); got != tt.want {
				t.Errorf("CleanRoutePrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
