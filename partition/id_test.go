package partition

import "testing"

func TestParseStandard(t *testing.T) {
	id, err := Parse("chunk0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.Kind != Standard || id.Index != 0 {
		t.Errorf("got %+v", id)
	}
	if s := id.String(); s != "chunk0" {
		t.Errorf("String() = %q, want chunk0", s)
	}
}

func TestParseDlc(t *testing.T) {
	id, err := Parse("dlc12")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.Kind != Dlc || id.Index != 12 {
		t.Errorf("got %+v", id)
	}
}

func TestParseLanguageDlc(t *testing.T) {
	id, err := Parse("dlc5langjp")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.Kind != LanguageDlc || id.Index != 5 || id.Lang != "jp" {
		t.Errorf("got %+v", id)
	}
	if s := id.String(); s != "dlc5langjp" {
		t.Errorf("String() = %q, want dlc5langjp", s)
	}
}

func TestParseWithPatchSuffix(t *testing.T) {
	id, err := Parse("chunk9patch3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.Kind != Standard || id.Index != 9 {
		t.Errorf("got %+v", id)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "chunk", "foo7", "chunk-1"}
	for _, in := range cases {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should have failed", in)
		}
	}
}
