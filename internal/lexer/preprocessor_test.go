package lexer

import "testing"

func TestPreprocessBasic(t *testing.T) {
	got := Preprocess("VRBL X I 16 S $")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Text != "VRBL X I 16 S" {
		t.Errorf("Text = %q", got[0].Text)
	}
	if got[0].Line != 0 {
		t.Errorf("Line = %d, want 0", got[0].Line)
	}
}

func TestPreprocessStripsComments(t *testing.T) {
	got := Preprocess("VRBL X I 16 S '' cost $ now '' $")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S" {
		t.Errorf("Text = %q, want %q", got[0].Text, "VRBL X I 16 S")
	}
}

func TestPreprocessCommentFlagResetsPerLine(t *testing.T) {
	// An unterminated '' on one line must not swallow the next line: the
	// comment flag is local to each physical line.
	src := "VRBL X I 16 S '' unterminated\nVRBL Y I 16 S $"
	got := Preprocess(src)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S VRBL Y I 16 S" {
		t.Errorf("Text = %q", got[0].Text)
	}
	if got[0].Line != 1 {
		t.Errorf("Line = %d, want 1", got[0].Line)
	}
}

func TestPreprocessMultiLineStatement(t *testing.T) {
	src := "VRBL X I 16 S\nPRESET 0 $"
	got := Preprocess(src)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S PRESET 0" {
		t.Errorf("Text = %q", got[0].Text)
	}
	if got[0].Line != 1 {
		t.Errorf("Line = %d, want 1 (terminating line)", got[0].Line)
	}
}

func TestPreprocessMultipleStatementsOneLine(t *testing.T) {
	got := Preprocess("VRBL X I 16 S $ VRBL Y I 16 S $")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S" || got[1].Text != "VRBL Y I 16 S" {
		t.Errorf("got = %+v", got)
	}
	if got[0].Line != 0 || got[1].Line != 0 {
		t.Errorf("both statements should share line 0: %+v", got)
	}
}

func TestPreprocessDiscardsEmptyStatements(t *testing.T) {
	got := Preprocess("$ $ VRBL X I 16 S $")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S" {
		t.Errorf("Text = %q", got[0].Text)
	}
}

func TestPreprocessTrailingTextWithoutTerminatorIsDropped(t *testing.T) {
	got := Preprocess("VRBL X I 16 S $ TRAILING NO DOLLAR")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %+v", len(got), got)
	}
	if got[0].Text != "VRBL X I 16 S" {
		t.Errorf("Text = %q", got[0].Text)
	}
}
