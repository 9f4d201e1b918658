package stringutil

import "testing"

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "artificial intelligence", "artificial intelligence"},
		{"uppercase folded", "Artificial Intelligence", "artificial intelligence"},
		{"non-breaking space normalized", "Data Science", "data science"},
		{"ligature normalized", "ﬁnance", "finance"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{"exact", "Artificial Intelligence", "Artificial Intelligence", true},
		{"case insensitive", "Artificial Intelligence", "artificial", true},
		{"substring", "+DataScience (+DS)", "datascience", true},
		{"no match", "Alumni/Reunion", "robotics", false},
		{"empty substr matches everything", "anything", "", true},
		{"nbsp in haystack", "Data Science", "data science", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ContainsFold(tt.s, tt.substr); got != tt.want {
				t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"029248", true},
		{"1", true},
		{"", false},
		{"12a", false},
		{"1.5", false},
	}

	for _, tt := range tests {
		if got := IsNumeric(tt.input); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
