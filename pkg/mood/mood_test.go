package mood

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Mood
	}{
		{"okay", Okay},
		{"  Pretty Bad ", PrettyBad},
		{"awesome", SuperAwesome},
		{"1", ReallyTerrible},
		{"GOOD", PrettyGood},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "ecstatic", "6"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q): expected error", in)
		}
	}
}

func TestAllIsTheFixedEnumeration(t *testing.T) {
	all := All()
	want := []Mood{SuperAwesome, PrettyGood, Okay, PrettyBad, ReallyTerrible}
	if len(all) != len(want) {
		t.Fatalf("expected %d moods, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("mood %d: want %q, got %q", i, want[i], all[i])
		}
		if !all[i].Valid() {
			t.Fatalf("mood %q should be valid", all[i])
		}
	}
	if Mood("meh").Valid() {
		t.Fatalf("unexpected valid mood")
	}
}

func TestLow(t *testing.T) {
	if !PrettyBad.Low() || !ReallyTerrible.Low() {
		t.Fatalf("expected bad moods to be low")
	}
	if Okay.Low() || SuperAwesome.Low() {
		t.Fatalf("expected okay/super awesome not to be low")
	}
}
