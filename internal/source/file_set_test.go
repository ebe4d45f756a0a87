package source

import (
	"testing"
)

func TestAddVirtualNormalizesContent(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.fy", []byte("\xEF\xBB\xBFbridge demo\r\n"))

	f := fs.Get(id)
	if string(f.Content) != "bridge demo\n" {
		t.Fatalf("expected normalized content, got %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag to be set")
	}
}

func TestAddAssignsSequentialIDsAndTracksLatest(t *testing.T) {
	fs := NewFileSet()
	a := fs.Add("a.fy", []byte("one"), 0)
	b := fs.Add("a.fy", []byte("two"), 0)

	if a == b {
		t.Fatalf("re-adding a path must mint a new FileID")
	}
	f, ok := fs.Lookup("a.fy")
	if !ok {
		t.Fatalf("Lookup failed for registered path")
	}
	if string(f.Content) != "two" {
		t.Fatalf("expected latest version, got %q", f.Content)
	}
	if fs.Len() != 2 {
		t.Fatalf("expected 2 files, got %d", fs.Len())
	}
}

func TestResolveSpanToLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("spans.fy", []byte("bridge demo\nstruct Point {\n}\n"))

	// "struct" starts at offset 12, line 2 col 1
	start, end := fs.Resolve(Span{File: id, Start: 12, End: 18})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("expected start 2:1, got %d:%d", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Fatalf("expected end 2:7, got %d:%d", end.Line, end.Col)
	}
}

func TestLineExtraction(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.fy", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	cases := []struct {
		num  uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tc := range cases {
		if got := f.Line(tc.num); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.num, got, tc.want)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	c := a.Cover(b)
	if c.Start != 5 || c.End != 20 {
		t.Fatalf("expected cover 5-20, got %d-%d", c.Start, c.End)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cross-file cover must return the receiver unchanged")
	}
}

func TestToLineColOnCRLFNormalizedInput(t *testing.T) {
	content, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed {
		t.Fatalf("expected CRLF normalization to report a change")
	}
	if string(content) != "a\nb\rc\n" {
		t.Fatalf("lone \\r must survive, got %q", content)
	}

	starts := buildLineStarts(content)
	pos := toLineCol(starts, 4) // 'c'
	if pos.Line != 2 || pos.Col != 3 {
		t.Fatalf("expected 2:3, got %d:%d", pos.Line, pos.Col)
	}
}
