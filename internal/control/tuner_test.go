package control

import (
	"errors"
	"strconv"
	"testing"
)

func TestDefaultGains(t *testing.T) {
	g := DefaultGains()
	if g.Kp != 0.5 || g.Ki != 0.003 || g.Kd != 0.8 {
		t.Errorf("unexpected defaults: %+v", g)
	}
}

func TestGainFieldString(t *testing.T) {
	tests := map[GainField]string{GainNone: "none", GainKp: "kp", GainKi: "ki", GainKd: "kd"}
	for f, want := range tests {
		if f.String() != want {
			t.Errorf("%d.String() = %q, want %q", f, f.String(), want)
		}
	}
}

func TestParseGainField(t *testing.T) {
	for _, f := range GainFields {
		got, err := ParseGainField(f.String())
		if err != nil || got != f {
			t.Errorf("ParseGainField(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseGainField("kz"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestGainsWith(t *testing.T) {
	g := DefaultGains()
	h := g.With(GainKi, 0.1)
	if h.Ki != 0.1 || h.Kp != g.Kp || h.Kd != g.Kd {
		t.Errorf("With changed the wrong field: %+v", h)
	}
	if g.Ki != 0.003 {
		t.Error("With mutated the receiver")
	}
	if g.With(GainNone, 9) != g {
		t.Error("With(GainNone) should be a no-op")
	}
}

func TestBeginEditSeedsBuffer(t *testing.T) {
	tests := []struct {
		field GainField
		want  string
	}{
		{GainKp, "0.5"},
		{GainKi, "0.003"},
		{GainKd, "0.8"},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			tu := NewTuner(DefaultGains())
			tu.BeginEdit(tt.field)
			if tu.Active() != tt.field {
				t.Errorf("active = %v, want %v", tu.Active(), tt.field)
			}
			if tu.Buffer() != tt.want {
				t.Errorf("buffer = %q, want %q", tu.Buffer(), tt.want)
			}
		})
	}
}

func TestAppendCharFiltersInput(t *testing.T) {
	tu := NewTuner(DefaultGains())
	tu.AppendChar('1')
	if tu.Buffer() != "" {
		t.Error("AppendChar should be a no-op while not editing")
	}

	tu.BeginEdit(GainKp)
	tu.Backspace()
	tu.Backspace()
	tu.Backspace()
	for _, r := range "-1a.2 e5x" {
		tu.AppendChar(r)
	}
	if tu.Buffer() != "-1.25" {
		t.Errorf("buffer = %q, want %q", tu.Buffer(), "-1.25")
	}
}

func TestBackspace(t *testing.T) {
	tu := NewTuner(DefaultGains())
	tu.Backspace()

	tu.BeginEdit(GainKd)
	tu.Backspace()
	if tu.Buffer() != "0." {
		t.Errorf("buffer = %q, want %q", tu.Buffer(), "0.")
	}
	tu.Backspace()
	tu.Backspace()
	tu.Backspace()
	if tu.Buffer() != "" || !tu.Editing() {
		t.Errorf("backspace past empty should leave an empty edit, got %q editing=%v", tu.Buffer(), tu.Editing())
	}
}

func TestCommitValid(t *testing.T) {
	tests := []struct {
		field GainField
		input string
		want  float64
	}{
		{GainKp, "1.25", 1.25},
		{GainKi, "-0.01", -0.01},
		{GainKd, "3", 3},
		{GainKd, ".5", 0.5},
		{GainKp, "2.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tu := NewTuner(DefaultGains())
			tu.BeginEdit(tt.field)
			for range tu.Buffer() {
				tu.Backspace()
			}
			for _, r := range tt.input {
				tu.AppendChar(r)
			}

			field, err := tu.Commit()
			if err != nil {
				t.Fatalf("commit failed: %v", err)
			}
			if field != tt.field {
				t.Errorf("committed field = %v, want %v", field, tt.field)
			}
			if got := tu.Gains().Get(tt.field); got != tt.want {
				t.Errorf("gain = %v, want %v", got, tt.want)
			}
			if tu.Editing() || tu.Buffer() != "" {
				t.Error("commit should clear the edit state")
			}
		})
	}
}

func TestCommitInvalid(t *testing.T) {
	for _, input := range []string{"abc", "--1", "", "-", ".", "1.2.3", "1-"} {
		t.Run(input, func(t *testing.T) {
			tu := NewTuner(DefaultGains())
			tu.BeginEdit(GainKp)
			for range tu.Buffer() {
				tu.Backspace()
			}
			for _, r := range input {
				tu.AppendChar(r)
			}

			_, err := tu.Commit()
			if !errors.Is(err, ErrInvalidGain) {
				t.Fatalf("expected ErrInvalidGain, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Field != GainKp {
				t.Errorf("expected *ParseError for kp, got %#v", err)
			}
			if tu.Gains() != DefaultGains() {
				t.Errorf("gains changed on a failed commit: %+v", tu.Gains())
			}
			if tu.Editing() || tu.Buffer() != "" {
				t.Error("failed commit should still clear the edit state")
			}
		})
	}
}

func TestCommitParseErrorUnwraps(t *testing.T) {
	tu := NewTuner(DefaultGains())
	tu.BeginEdit(GainKi)
	tu.AppendChar('-')
	_, err := tu.Commit()
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected strconv.ErrSyntax in the chain, got %v", err)
	}
}

func TestCommitNotEditing(t *testing.T) {
	tu := NewTuner(DefaultGains())
	if _, err := tu.Commit(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	tu := NewTuner(DefaultGains())
	tu.BeginEdit(GainKi)
	tu.AppendChar('9')
	tu.Cancel()
	if tu.Editing() || tu.Buffer() != "" {
		t.Error("cancel should clear the edit state")
	}
	if tu.Gains() != DefaultGains() {
		t.Error("cancel should not change gains")
	}
}

func TestBeginEditReplacesPendingEdit(t *testing.T) {
	tu := NewTuner(DefaultGains())
	tu.BeginEdit(GainKp)
	tu.AppendChar('7')
	tu.BeginEdit(GainKd)
	if tu.Active() != GainKd || tu.Buffer() != "0.8" {
		t.Errorf("got active=%v buffer=%q", tu.Active(), tu.Buffer())
	}
	tu.BeginEdit(GainNone)
	if tu.Editing() {
		t.Error("BeginEdit(GainNone) should cancel")
	}
}
