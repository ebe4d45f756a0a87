package diag

import (
	"testing"

	"ferry/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/schema/sample.fy", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ResUnusedImport,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
	}

	expected := "error SYN2001 schema/sample.fy:1:1 first line second\n" +
		"note SYN2001 schema/sample.fy:2:1 note line\n" +
		"warning RES3012 schema/sample.fy:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(16)
	sp := func(start uint32) source.Span { return source.Span{File: 0, Start: start, End: start + 1} }

	bag.Add(NewWarning(ResUnusedImport, sp(5), "later"))
	bag.Add(NewError(SynUnexpectedToken, sp(1), "first"))
	bag.Add(NewError(SynUnexpectedToken, sp(1), "first"))
	bag.Add(NewError(ResDuplicateType, sp(5), "dup type"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Code != SynUnexpectedToken {
		t.Fatalf("expected SynUnexpectedToken first, got %v", items[0].Code)
	}
	// at the same position errors sort before warnings
	if items[1].Code != ResDuplicateType || items[2].Code != ResUnusedImport {
		t.Fatalf("unexpected order: %v, %v", items[1].Code, items[2].Code)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings present")
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	bag := NewBag(8)
	rep := NewDedupReporter(BagReporter{Bag: bag})

	span := source.Span{File: 0, Start: 0, End: 1}
	rep.Report(LexUnknownChar, SevError, span, "bad byte", nil)
	rep.Report(LexUnknownChar, SevError, span, "bad byte", nil)
	rep.Report(LexUnknownChar, SevError, span, "other message", nil)

	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeIDRanges(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynExpectTopLevel, "SYN2008"},
		{ResDuplicateType, "RES3001"},
		{GenUnsupportedShape, "GEN4002"},
		{IOWriteFileError, "IO5002"},
		{PrjManifestNotFound, "PRJ6001"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tc.code, got, tc.want)
		}
	}
}
