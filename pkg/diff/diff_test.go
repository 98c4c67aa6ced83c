package diff

import (
	"reflect"
	"testing"
)

func TestPaired_Identical(t *testing.T) {
	lines := []string{"a", "b", "c"}
	if got := Paired(lines, lines); len(got) != 0 {
		t.Fatalf("Paired(identical) = %+v, want no records", got)
	}
}

func TestPaired_SingleChangedLine(t *testing.T) {
	got := Paired([]string{"a", "b", "c"}, []string{"a", "X", "c"})
	want := []Record{{Kind: Changed, Line: 2, Old: "b", New: "X"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paired = %+v, want %+v", got, want)
	}
}

func TestPaired_PureAddition(t *testing.T) {
	got := Paired([]string{"a", "b"}, []string{"a", "b", "c"})
	want := []Record{{Kind: Added, Line: 3, New: "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paired = %+v, want %+v", got, want)
	}
}

func TestPaired_PureDeletion(t *testing.T) {
	got := Paired([]string{"a", "b", "c", "d"}, []string{"a", "b"})
	want := []Record{
		{Kind: Deleted, Line: 3, Old: "c"},
		{Kind: Deleted, Line: 4, Old: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paired = %+v, want %+v", got, want)
	}
}

// An insertion near the top shifts every later line into a mismatch.
func TestPaired_InsertionCascades(t *testing.T) {
	got := Paired([]string{"a", "b", "c"}, []string{"new", "a", "b", "c"})
	want := []Record{
		{Kind: Changed, Line: 1, Old: "a", New: "new"},
		{Kind: Changed, Line: 2, Old: "b", New: "a"},
		{Kind: Changed, Line: 3, Old: "c", New: "b"},
		{Kind: Added, Line: 4, New: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paired = %+v, want %+v", got, want)
	}
}

func TestMyers_InsertionIsSingleRecord(t *testing.T) {
	got := Myers([]string{"a", "b", "c"}, []string{"new", "a", "b", "c"})
	want := []Record{{Kind: Added, Line: 1, New: "new"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Myers = %+v, want %+v", got, want)
	}
}

func TestMyers_Replacement(t *testing.T) {
	got := Myers([]string{"a", "b", "c"}, []string{"a", "X", "c"})
	if len(got) != 2 {
		t.Fatalf("Myers = %+v, want one deletion and one addition", got)
	}
	var sawDel, sawAdd bool
	for _, r := range got {
		switch {
		case r.Kind == Deleted && r.Line == 2 && r.Old == "b":
			sawDel = true
		case r.Kind == Added && r.Line == 2 && r.New == "X":
			sawAdd = true
		}
	}
	if !sawDel || !sawAdd {
		t.Fatalf("Myers = %+v", got)
	}
}

func TestMyers_TrimsCommonHeadAndTail(t *testing.T) {
	got := Myers([]string{"a", "b", "c", "d"}, []string{"a", "c", "d", "e"})
	want := []Record{
		{Kind: Deleted, Line: 2, Old: "b"},
		{Kind: Added, Line: 4, New: "e"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Myers = %+v, want %+v", got, want)
	}
}

func TestMyers_MinimalEditScript(t *testing.T) {
	oldLines := []string{"a", "b", "c", "a", "b", "b", "a"}
	newLines := []string{"c", "b", "a", "b", "a", "c"}
	records := Myers(oldLines, newLines)

	deleted := make(map[int]bool)
	added := make(map[int]bool)
	for _, r := range records {
		switch r.Kind {
		case Deleted:
			if oldLines[r.Line-1] != r.Old {
				t.Fatalf("deleted record %+v does not match old line %q", r, oldLines[r.Line-1])
			}
			deleted[r.Line] = true
		case Added:
			if newLines[r.Line-1] != r.New {
				t.Fatalf("added record %+v does not match new line %q", r, newLines[r.Line-1])
			}
			added[r.Line] = true
		default:
			t.Fatalf("unexpected record kind: %+v", r)
		}
	}

	var keptOld, keptNew []string
	for i, l := range oldLines {
		if !deleted[i+1] {
			keptOld = append(keptOld, l)
		}
	}
	for i, l := range newLines {
		if !added[i+1] {
			keptNew = append(keptNew, l)
		}
	}
	if !reflect.DeepEqual(keptOld, keptNew) {
		t.Fatalf("unchanged lines differ: old %q, new %q (records %+v)", keptOld, keptNew, records)
	}
	// Myers' 1986 paper: this pair has edit distance 5.
	if len(records) != 5 {
		t.Fatalf("edit distance = %d, want 5", len(records))
	}
}

func TestMyers_EmptySides(t *testing.T) {
	if got := Myers(nil, nil); got != nil {
		t.Fatalf("Myers(nil, nil) = %+v", got)
	}
	if got := Myers([]string{"x"}, []string{"x"}); got != nil {
		t.Fatalf("Myers(identical) = %+v", got)
	}
	want := []Record{{Kind: Added, Line: 1, New: "x"}}
	if got := Myers(nil, []string{"x"}); !reflect.DeepEqual(got, want) {
		t.Fatalf("Myers(nil, [x]) = %+v", got)
	}
	want = []Record{{Kind: Deleted, Line: 1, Old: "x"}}
	if got := Myers([]string{"x"}, nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("Myers([x], nil) = %+v", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\n", []string{"a", ""}},
	}
	for _, tc := range tests {
		if got := SplitLines(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompare_Modes(t *testing.T) {
	oldText := "a\nb\nc\n"
	newText := "z\na\nb\nc\n"
	if got := Compare(ModePaired, oldText, newText); len(got) != 4 {
		t.Errorf("paired records = %d, want 4", len(got))
	}
	if got := Compare(ModeMyers, oldText, newText); len(got) != 1 {
		t.Errorf("myers records = %d, want 1", len(got))
	}
	if got := Compare(ModePaired, "v2", "v2\n"); len(got) != 0 {
		t.Errorf("trailing newline should not count as a change: %+v", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModePaired},
		{in: "paired", want: ModePaired},
		{in: " Myers ", want: ModeMyers},
		{in: "lcs", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) succeeded", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	records := []Record{
		{Kind: Changed, Line: 2, Old: "b", New: "X"},
		{Kind: Added, Line: 4, New: "d"},
		{Kind: Deleted, Line: 5, Old: "e"},
	}
	want := "Line 2: \n- b\n+ X\n" +
		"Line 4: \n+ d\n" +
		"Line 5: \n- e\n"
	if got := Format(records); got != want {
		t.Fatalf("Format =\n%s\nwant:\n%s", got, want)
	}
	if got := Format(nil); got != "" {
		t.Fatalf("Format(nil) = %q, want empty", got)
	}
}

func TestReportEmpty(t *testing.T) {
	var nilReport *Report
	if !nilReport.Empty() || nilReport.String() != "" {
		t.Fatal("nil report should be empty")
	}
	r := &Report{Records: []Record{{Kind: Added, Line: 1, New: "x"}}}
	if r.Empty() {
		t.Fatal("report with records reported empty")
	}
	if r.String() != "Line 1: \n+ x\n" {
		t.Fatalf("String() = %q", r.String())
	}
}
