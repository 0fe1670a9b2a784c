package keys

import "testing"

func TestParseLabelRejectsBareLetters(t *testing.T) {
	opt := DefaultParseOptions()
	for _, l := range []string{"a", "Z", "q"} {
		if _, ok := ParseLabel(l, opt); ok {
			t.Errorf("ParseLabel(%q) should reject plain letters", l)
		}
	}
}

func TestParseLabelDigitsAndSymbols(t *testing.T) {
	opt := DefaultParseOptions()
	cases := map[string]KeyID{
		"5":           digit(5),
		"Key7":        digit(7),
		"-":           symbol(Minus),
		"Minus":       symbol(Minus),
		"Semicolon":   symbol(Semicolon),
		";":           symbol(Semicolon),
		"ArrowLeft":   arrow(Left),
		"left":        arrow(Left),
		"Tab":         plain(KindTab),
		"Space":       plain(KindSpace),
		"spacebar":    plain(KindSpace),
		"LeftShift":   plain(KindShiftL),
		"leftalt":     plain(KindAltL),
		"loption":     plain(KindAltL),
	}
	for label, want := range cases {
		got, ok := ParseLabel(label, opt)
		if !ok {
			t.Fatalf("ParseLabel(%q) failed to parse", label)
		}
		if got != want {
			t.Errorf("ParseLabel(%q) = %+v, want %+v", label, got, want)
		}
	}
}

func TestParseLabelGatedFamilies(t *testing.T) {
	base := DefaultParseOptions()
	if _, ok := ParseLabel("F1", base); ok {
		t.Error("F1 should be rejected when IncludeFKeys is off")
	}
	if _, ok := ParseLabel("Home", base); ok {
		t.Error("Home should be rejected when IncludeNavigation is off")
	}
	if _, ok := ParseLabel("NumpadAdd", base); ok {
		t.Error("NumpadAdd should be rejected when IncludeNumpad is off")
	}

	full := ParseOptions{IncludeFKeys: true, FKeysMax: 12, IncludeNavigation: true, IncludeNumpad: true}
	if _, ok := ParseLabel("F12", full); !ok {
		t.Error("F12 should parse when IncludeFKeys is on and within FKeysMax")
	}
	if _, ok := ParseLabel("F13", full); ok {
		t.Error("F13 should be rejected: exceeds FKeysMax")
	}
	if _, ok := ParseLabel("Home", full); !ok {
		t.Error("Home should parse when IncludeNavigation is on")
	}
	if got, ok := ParseLabel("Numpad5", full); !ok || got != numpadDigit(5) {
		t.Errorf("Numpad5 = %+v, %v; want NumpadDigit(5), true", got, ok)
	}
}

func TestAllMovableKeysRespectsGating(t *testing.T) {
	base := AllMovableKeys(DefaultParseOptions())
	full := AllMovableKeys(ParseOptions{IncludeFKeys: true, FKeysMax: 12, IncludeNavigation: true, IncludeNumpad: true})
	if len(full) <= len(base) {
		t.Fatalf("full vocabulary (%d) should be larger than default (%d)", len(full), len(base))
	}
	seen := map[KeyID]bool{}
	for _, k := range full {
		if seen[k] {
			t.Fatalf("duplicate key %v in AllMovableKeys", k)
		}
		seen[k] = true
	}
}

func TestAllowedWidths(t *testing.T) {
	oneUOnly := []KeyID{digit(3), arrow(Up), function(5), numpadDigit(2)}
	for _, k := range oneUOnly {
		w := AllowedWidths(k)
		if len(w) != 1 || w[0] != 1.0 {
			t.Errorf("AllowedWidths(%v) = %v, want [1.00]", k, w)
		}
	}
	variable := AllowedWidths(plain(KindTab))
	if len(variable) != 7 {
		t.Errorf("AllowedWidths(Tab) has %d entries, want 7", len(variable))
	}
}

func TestFrequencyTableProbabilities(t *testing.T) {
	ft := NewFrequencyTable()
	if !ft.IsEmpty() {
		t.Fatal("new table should be empty")
	}
	ft.Add(digit(1), 3)
	ft.Add(arrow(Left), 1)

	probs := ft.Probabilities()
	if got := probs[digit(1)]; got != 0.75 {
		t.Errorf("P(digit1) = %v, want 0.75", got)
	}
	if got := probs[arrow(Left)]; got != 0.25 {
		t.Errorf("P(arrowLeft) = %v, want 0.25", got)
	}
	if ft.Total() != 4 {
		t.Errorf("Total() = %d, want 4", ft.Total())
	}

	other := NewFrequencyTable()
	other.Add(digit(1), 1)
	ft.Merge(other)
	if ft.Total() != 5 {
		t.Errorf("after merge Total() = %d, want 5", ft.Total())
	}
}

func TestEmptyFrequencyTableProbabilities(t *testing.T) {
	ft := NewFrequencyTable()
	if probs := ft.Probabilities(); len(probs) != 0 {
		t.Errorf("empty table Probabilities() = %v, want empty map", probs)
	}
}
