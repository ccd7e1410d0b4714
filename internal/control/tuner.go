package control

import "strconv"

// Tuner holds the live gains and the text edit of one of them.
type Tuner struct {
	gains  Gains
	active GainField
	buffer []byte
}

func NewTuner(g Gains) *Tuner {
	return &Tuner{gains: g}
}

func (t *Tuner) Gains() Gains      { return t.gains }
func (t *Tuner) Active() GainField { return t.active }
func (t *Tuner) Buffer() string    { return string(t.buffer) }
func (t *Tuner) Editing() bool     { return t.active != GainNone }
func (t *Tuner) SetGains(g Gains)  { t.gains = g }

// BeginEdit starts editing f, seeding the buffer with its current value.
// Any edit already in progress is dropped.
func (t *Tuner) BeginEdit(f GainField) {
	if f == GainNone {
		t.Cancel()
		return
	}
	t.active = f
	t.buffer = strconv.AppendFloat(t.buffer[:0], t.gains.Get(f), 'g', -1, 64)
}

// AppendChar accepts digits, '.' and '-' while an edit is in progress.
func (t *Tuner) AppendChar(r rune) {
	if !t.Editing() {
		return
	}
	if (r >= '0' && r <= '9') || r == '.' || r == '-' {
		t.buffer = append(t.buffer, byte(r))
	}
}

func (t *Tuner) Backspace() {
	if !t.Editing() || len(t.buffer) == 0 {
		return
	}
	t.buffer = t.buffer[:len(t.buffer)-1]
}

// Commit parses the buffer into the active gain. The edit state is cleared
// whether or not the text parses; on failure the gain is left unchanged and
// a *ParseError is returned.
func (t *Tuner) Commit() (GainField, error) {
	if !t.Editing() {
		return GainNone, ErrNotEditing
	}
	field, text := t.active, string(t.buffer)
	t.Cancel()

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return field, &ParseError{Field: field, Input: text, Err: err}
	}
	t.gains = t.gains.With(field, v)
	return field, nil
}

// Cancel drops the edit without touching the gains.
func (t *Tuner) Cancel() {
	t.active = GainNone
	t.buffer = t.buffer[:0]
}
