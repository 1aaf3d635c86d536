package semver

import "testing"

func TestSatisfies(t *testing.T) {
	c := MustParseConstraint("^1.2.0")

	if !Satisfies(MustParseVersion("1.2.0"), c) {
		t.Fatalf("expected 1.2.0 to satisfy ^1.2.0")
	}
	if !Satisfies(MustParseVersion("1.9.9"), c) {
		t.Fatalf("expected 1.9.9 to satisfy ^1.2.0")
	}
	if Satisfies(MustParseVersion("2.0.0"), c) {
		t.Fatalf("expected 2.0.0 to NOT satisfy ^1.2.0")
	}
}

func TestSatisfies_ZeroValues(t *testing.T) {
	if Satisfies(Version{}, MustParseConstraint("*")) {
		t.Fatalf("expected zero version to never satisfy")
	}
	if Satisfies(MustParseVersion("1.0.0"), Constraint{}) {
		t.Fatalf("expected zero constraint to never match")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseVersion("not-a-version"); err == nil {
		t.Fatalf("expected error for invalid version")
	}
	if _, err := ParseConstraint("not-a-constraint"); err == nil {
		t.Fatalf("expected error for invalid constraint")
	}
}

func TestString(t *testing.T) {
	if got := MustParseVersion("v1.4.0").String(); got != "1.4.0" {
		t.Fatalf("expected 1.4.0, got %q", got)
	}
	if got := MustParseConstraint(">=1.0.0").String(); got != ">=1.0.0" {
		t.Fatalf("expected >=1.0.0, got %q", got)
	}
	if (Constraint{}).String() != "" || (Version{}).String() != "" {
		t.Fatalf("expected empty strings for zero values")
	}
}
