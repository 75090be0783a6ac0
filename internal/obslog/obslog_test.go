package obslog

import (
	"strings"
	"testing"
)

func TestLevelFilterSuppressesBelowMinimum(t *testing.T) {
	var buf strings.Builder
	l := New(&buf, LevelWarn)
	l.Debug("should not appear")
	l.Info("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged below the minimum level, got %q", buf.String())
	}
	l.Warn("this one should appear")
	if !strings.Contains(buf.String(), "WARN this one should appear") {
		t.Errorf("expected a WARN line, got %q", buf.String())
	}
}

func TestWithAppendsFieldsWithoutMutatingParent(t *testing.T) {
	var buf strings.Builder
	base := New(&buf, LevelInfo)
	derived := base.With("opcode", "loadInteger")

	base.Info("base message")
	if strings.Contains(buf.String(), "opcode=") {
		t.Fatalf("parent logger should not carry the derived field, got %q", buf.String())
	}
	buf.Reset()

	derived.Info("derived message")
	if !strings.Contains(buf.String(), "opcode=loadInteger") {
		t.Errorf("expected the chained field in output, got %q", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"error": LevelError,
		"bogus": LevelInfo,
		"":      LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
