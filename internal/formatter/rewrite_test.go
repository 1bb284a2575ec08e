package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/versekit/verse-router/internal/domain"
)

func TestRenumberBody(t *testing.T) {
	f := New()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "sequential numbering in document order",
			body: "    \"alpha\",\n    \"beta\",\n    \"gamma\"",
			want: "    /* 1 */ \"alpha\",\n    /* 2 */ \"beta\",\n    /* 3 */ \"gamma\"",
		},
		{
			name: "blank line between elements passes through",
			body: "\"a\",\n\n/* 9 */ \"b\",",
			want: "/* 1 */ \"a\",\n\n/* 2 */ \"b\",",
		},
		{
			name: "stale annotations are discarded, not trusted",
			body: "    /* 7 */ \"x\",\n    /* 3 */ \"y\",\n    /* 3 */ \"z\"",
			want: "    /* 1 */ \"x\",\n    /* 2 */ \"y\",\n    /* 3 */ \"z\"",
		},
		{
			name: "annotation with internal whitespace stripped without residue",
			body: "  /*   7  */\"content\",",
			want: "  /* 1 */ \"content\",",
		},
		{
			name: "non-element lines are byte-identical in output",
			body: "    // a comment line\n    \"a\",\n    someCall()\n    \"b\"",
			want: "    // a comment line\n    /* 1 */ \"a\",\n    someCall()\n    /* 2 */ \"b\"",
		},
		{
			name: "trailing whitespace tolerated by terminator heuristic",
			body: "    \"a\",   \n    \"b\"  ",
			want: "    /* 1 */ \"a\",   \n    /* 2 */ \"b\"  ",
		},
		{
			name:    "only blank lines",
			body:    "\n   \n\t\n",
			wantErr: ErrNoElementLines,
		},
		{
			name:    "no line ends a quoted element",
			body:    "    someCall(),\n    42,",
			wantErr: ErrNoElementLines,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.RenumberBody(tt.body)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("RenumberBody() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RenumberBody() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("RenumberBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenumberBody_PreservesLeadingWhitespace(t *testing.T) {
	f := New()

	body := "  \"two spaces\",\n\t\"one tab\",\n        \"eight spaces\""
	got, err := f.RenumberBody(body)
	if err != nil {
		t.Fatalf("RenumberBody() unexpected error: %v", err)
	}

	inLines := strings.Split(body, "\n")
	outLines := strings.Split(got, "\n")
	for i := range inLines {
		wantIndent := leadingWhitespace(inLines[i])
		if !strings.HasPrefix(outLines[i], wantIndent+"/* ") {
			t.Errorf("line %d: output %q does not keep leading whitespace %q", i, outLines[i], wantIndent)
		}
	}
}

func TestCleanBody(t *testing.T) {
	f := New()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "annotation and trailing space removed",
			body: "/* 3 */ \"c\",",
			want: "\"c\",",
		},
		{
			name: "indentation before annotation kept",
			body: "    /* 12 */ \"verse\",",
			want: "    \"verse\",",
		},
		{
			name: "every occurrence on a line removed",
			body: "/* 1 */ \"a\", /* 2 */ \"b\",",
			want: "\"a\", \"b\",",
		},
		{
			name: "blank and whitespace-only lines preserved",
			body: "/* 1 */ \"a\",\n\n   \n/* 2 */ \"b\",",
			want: "\"a\",\n\n   \n\"b\",",
		},
		{
			name: "non-numeric comments untouched",
			body: "/* note */ \"a\", // trailing",
			want: "/* note */ \"a\", // trailing",
		},
		{
			name: "no annotations is a no-op",
			body: "    \"a\",\n    \"b\"",
			want: "    \"a\",\n    \"b\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.CleanBody(tt.body); got != tt.want {
				t.Errorf("CleanBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanBody_Idempotent(t *testing.T) {
	f := New()

	bodies := []string{
		"/* 1 */ \"a\",\n/* 2 */ \"b\",",
		"\"a\",\n\n\"b\"",
		"",
		"   \n\t",
	}

	for _, body := range bodies {
		once := f.CleanBody(body)
		twice := f.CleanBody(once)
		if once != twice {
			t.Errorf("CleanBody not idempotent: first %q, second %q", once, twice)
		}
	}
}

func TestRenumber_WrapsInFencedBlock(t *testing.T) {
	f := New()

	code := "private let verses = [\n    \"In the beginning\",\n    /* 99 */ \"and then\",\n]"
	got, err := f.Renumber(code)
	if err != nil {
		t.Fatalf("Renumber() unexpected error: %v", err)
	}

	want := "```swift\nprivate let verses = [\n\n    /* 1 */ \"In the beginning\",\n    /* 2 */ \"and then\",\n\n]\n```"
	if got != want {
		t.Errorf("Renumber() = %q, want %q", got, want)
	}

	// The output is itself a complete fenced block, so callers may re-extract it.
	inner, err := f.ExtractCode(got)
	if err != nil {
		t.Fatalf("output is not re-extractable: %v", err)
	}
	if !strings.Contains(inner, "/* 1 */") {
		t.Errorf("re-extracted code lost annotations: %q", inner)
	}
}

func TestRenumber_Errors(t *testing.T) {
	f := New()

	if _, err := f.Renumber("no brackets here"); !errors.Is(err, ErrArrayBoundsNotFound) {
		t.Errorf("Renumber() error = %v, want ErrArrayBoundsNotFound", err)
	}

	if _, err := f.Renumber("private let x = [\n\n]"); !errors.Is(err, ErrNoElementLines) {
		t.Errorf("Renumber() error = %v, want ErrNoElementLines", err)
	}
}

func TestClean_WrapsInFencedBlock(t *testing.T) {
	f := New()

	code := "private let verses = [\n    /* 1 */ \"a\",\n    /* 2 */ \"b\",\n]"
	got, err := f.Clean(code)
	if err != nil {
		t.Fatalf("Clean() unexpected error: %v", err)
	}

	want := "```swift\nprivate let verses = [\n\n    \"a\",\n    \"b\",\n\n]\n```"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_NoAnnotationsIsNotAnError(t *testing.T) {
	f := New()

	// Clean has no failure mode once bounds are found, even for a body of
	// blank lines that renumber would reject.
	got, err := f.Clean("private let x = [\n\n]")
	if err != nil {
		t.Fatalf("Clean() unexpected error: %v", err)
	}
	if got != "```swift\nprivate let x = [\n\n\n\n]\n```" {
		t.Errorf("Clean() = %q", got)
	}

	if _, err := f.Clean("no brackets"); !errors.Is(err, ErrArrayBoundsNotFound) {
		t.Errorf("Clean() error = %v, want ErrArrayBoundsNotFound", err)
	}
}

func TestSimpleReplyFallback(t *testing.T) {
	// No user message.
	got := SimpleReply(nil)
	if !strings.Contains(got, "Provide a prompt") {
		t.Errorf("SimpleReply(nil) = %q", got)
	}

	// Echoes the latest user message.
	msgs := []domain.Message{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "first"},
		{Role: domain.RoleAssistant, Content: "reply"},
		{Role: domain.RoleUser, Content: "second"},
	}
	got = SimpleReply(msgs)
	if !strings.Contains(got, "second") {
		t.Errorf("SimpleReply() = %q, want echo of latest user message", got)
	}

	// Blank-line removal convenience path.
	msgs[len(msgs)-1].Content = "remove blank lines:\nfoo\n\nbar\n\n"
	got = SimpleReply(msgs)
	if strings.Contains(got, "\n\n") {
		t.Errorf("SimpleReply() kept blank lines: %q", got)
	}
}
