package resolve

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/dukebot/dukebot-go/internal/refdata"
)

func testStore() *refdata.Store {
	return &refdata.Store{
		Subjects: []string{
			"AIPI - AI for Product Innovation",
			"COMPSCI - Computer Science",
			"ECE - Electrical & Computer Engr",
			"MATH - Mathematics",
			"STA - Statistical Science",
			"ARTS&SCI - Arts and Sciences",
		},
		Groups: []string{
			"+DataScience (+DS)",
			"Duke Alumni Association",
			"Duke Law",
			"Nicholas School of the Environment",
		},
		Categories: []string{
			"Academic Calendar Dates",
			"Alumni/Reunion",
			"Artificial Intelligence",
			"Lecture/Talk",
			"Workshop/Short Course",
		},
	}
}

func TestSearchCategories(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"substring hit", "artificial", []string{"Artificial Intelligence"}},
		{"case insensitive", "LECTURE", []string{"Lecture/Talk"}},
		{"multiple hits keep list order", "al", []string{"Academic Calendar Dates", "Alumni/Reunion", "Artificial Intelligence", "Lecture/Talk"}},
		{"miss", "robotics", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.SearchCategories(tt.query)
			if got.Query != tt.query {
				t.Errorf("Query = %q, want %q", got.Query, tt.query)
			}
			if !reflect.DeepEqual(got.Matches, tt.want) {
				t.Errorf("Matches = %v, want %v", got.Matches, tt.want)
			}
		})
	}
}

func TestSearchCategories_JSONShape(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	got, err := json.Marshal(r.SearchCategories("artificial intelligence"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"query":"artificial intelligence","matches":["Artificial Intelligence"]}`
	if string(got) != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}

	// A miss still serializes matches as [], not null
	got, err = json.Marshal(r.SearchCategories("zzz"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want = `{"query":"zzz","matches":[]}`
	if string(got) != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestSearchGroups(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	got := r.SearchGroups("datascience")
	want := []string{"+DataScience (+DS)"}
	if !reflect.DeepEqual(got.Matches, want) {
		t.Errorf("Matches = %v, want %v", got.Matches, want)
	}

	got = r.SearchGroups("duke")
	want = []string{"Duke Alumni Association", "Duke Law"}
	if !reflect.DeepEqual(got.Matches, want) {
		t.Errorf("Matches = %v, want %v", got.Matches, want)
	}
}

func TestSearchSubjects_CodeRanksBeforeDescription(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	// "sci" hits COMPSCI and ARTS&SCI by code, and Computer Science,
	// Statistical Science, Arts and Sciences by description. Code hits come
	// first and each subject appears once.
	got := r.SearchSubjects("sci")
	want := []string{
		"COMPSCI - Computer Science",
		"ARTS&SCI - Arts and Sciences",
		"STA - Statistical Science",
	}
	if !reflect.DeepEqual(got.Matches, want) {
		t.Errorf("Matches = %v, want %v", got.Matches, want)
	}
}

func TestSearchSubjects_DescriptionOnly(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	got := r.SearchSubjects("innovation")
	want := []string{"AIPI - AI for Product Innovation"}
	if !reflect.DeepEqual(got.Matches, want) {
		t.Errorf("Matches = %v, want %v", got.Matches, want)
	}
}

func TestSearchSubjects_Miss(t *testing.T) {
	t.Parallel()

	r := New(testStore(), nil)

	got := r.SearchSubjects("underwater basket weaving")
	if len(got.Matches) != 0 {
		t.Errorf("Matches = %v, want empty", got.Matches)
	}
}

func TestMatchesCappedAtFive(t *testing.T) {
	t.Parallel()

	store := &refdata.Store{
		Categories: []string{
			"Topic A", "Topic B", "Topic C", "Topic D", "Topic E", "Topic F", "Topic G",
		},
	}
	r := New(store, nil)

	got := r.SearchCategories("topic")
	if len(got.Matches) != MaxMatches {
		t.Errorf("len(Matches) = %d, want %d", len(got.Matches), MaxMatches)
	}
	// The first five in list order survive the cap
	if got.Matches[0] != "Topic A" || got.Matches[4] != "Topic E" {
		t.Errorf("Matches = %v, want Topic A..Topic E", got.Matches)
	}
}

func TestEmptyStoreReturnsNoMatches(t *testing.T) {
	t.Parallel()

	r := New(&refdata.Store{}, nil)

	for _, res := range []Result{
		r.SearchSubjects("anything"),
		r.SearchGroups("anything"),
		r.SearchCategories("anything"),
	} {
		if len(res.Matches) != 0 {
			t.Errorf("Matches = %v, want empty", res.Matches)
		}
	}
}
