// Package keys defines the closed vocabulary of non-letter keys that
// the optimiser is allowed to place, their label parsing, and the
// width candidates each one admits. Letters themselves are never part
// of this vocabulary: their positions are fixed by internal/geometry
// before placement search ever begins.
package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags which field of a KeyID is meaningful.
type Kind int

const (
	KindDigit Kind = iota
	KindSymbol
	KindTab
	KindEscape
	KindCapsLock
	KindDelete
	KindBackspace
	KindSpace
	KindEnter
	KindShiftL
	KindShiftR
	KindCtrlL
	KindCtrlR
	KindAltL
	KindAltR
	KindMetaL
	KindMetaR
	KindFunction
	KindArrow
	KindHome
	KindEnd
	KindPageUp
	KindPageDown
	KindInsert
	KindNumpadDigit
	KindNumpadAdd
	KindNumpadSubtract
	KindNumpadMultiply
	KindNumpadDivide
	KindNumpadEnter
	KindNumpadEquals
	KindNumpadDecimal
)

// Symbol is the closed set of US-layout punctuation keys.
type Symbol int

const (
	Backtick Symbol = iota
	Minus
	Equal
	LBracket
	RBracket
	Backslash
	Semicolon
	Quote
	Comma
	Period
	Slash
)

func (s Symbol) String() string {
	switch s {
	case Backtick:
		return "Backtick"
	case Minus:
		return "Minus"
	case Equal:
		return "Equal"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Backslash:
		return "Backslash"
	case Semicolon:
		return "Semicolon"
	case Quote:
		return "Quote"
	case Comma:
		return "Comma"
	case Period:
		return "Period"
	case Slash:
		return "Slash"
	default:
		return fmt.Sprintf("Symbol(%d)", int(s))
	}
}

// Direction is the closed set of arrow-key directions.
type Direction int

const (
	Left Direction = iota
	Down
	Up
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// AllDirections lists the four arrow directions in block layout order:
// left, down, up, right, matching the inverted-T arrow cluster.
func AllDirections() []Direction { return []Direction{Left, Down, Up, Right} }

// MaxDigit and MaxNumpadDigit bound the two digit-carrying key kinds.
const (
	MaxDigit       = 9
	MaxNumpadDigit = 9
)

// DefaultFKeysMax is the default upper bound on function-key numbering
// when function keys are enabled.
const DefaultFKeysMax = 12

// KeyID identifies one placeable, non-letter key. Kind selects which
// of N/Symbol/Arrow is meaningful; the rest are zero.
type KeyID struct {
	Kind   Kind
	N      int // Digit, Function, NumpadDigit
	Symbol Symbol
	Arrow  Direction
}

func (k KeyID) String() string {
	switch k.Kind {
	case KindDigit:
		return strconv.Itoa(k.N)
	case KindSymbol:
		return k.Symbol.String()
	case KindTab:
		return "Tab"
	case KindEscape:
		return "Escape"
	case KindCapsLock:
		return "CapsLock"
	case KindDelete:
		return "Delete"
	case KindBackspace:
		return "Backspace"
	case KindSpace:
		return "Space"
	case KindEnter:
		return "Enter"
	case KindShiftL:
		return "LeftShift"
	case KindShiftR:
		return "RightShift"
	case KindCtrlL:
		return "LeftControl"
	case KindCtrlR:
		return "RightControl"
	case KindAltL:
		return "LeftAlt"
	case KindAltR:
		return "RightAlt"
	case KindMetaL:
		return "LeftMeta"
	case KindMetaR:
		return "RightMeta"
	case KindFunction:
		return fmt.Sprintf("F%d", k.N)
	case KindArrow:
		return fmt.Sprintf("Arrow%s", k.Arrow)
	case KindHome:
		return "Home"
	case KindEnd:
		return "End"
	case KindPageUp:
		return "PageUp"
	case KindPageDown:
		return "PageDown"
	case KindInsert:
		return "Insert"
	case KindNumpadDigit:
		return fmt.Sprintf("Numpad%d", k.N)
	case KindNumpadAdd:
		return "NumpadAdd"
	case KindNumpadSubtract:
		return "NumpadSubtract"
	case KindNumpadMultiply:
		return "NumpadMultiply"
	case KindNumpadDivide:
		return "NumpadDivide"
	case KindNumpadEnter:
		return "NumpadEnter"
	case KindNumpadEquals:
		return "NumpadEquals"
	case KindNumpadDecimal:
		return "NumpadDecimal"
	default:
		return fmt.Sprintf("KeyID(kind=%d)", int(k.Kind))
	}
}

func digit(n int) KeyID        { return KeyID{Kind: KindDigit, N: n} }
func symbol(s Symbol) KeyID    { return KeyID{Kind: KindSymbol, Symbol: s} }
func arrow(d Direction) KeyID  { return KeyID{Kind: KindArrow, Arrow: d} }
func function(n int) KeyID     { return KeyID{Kind: KindFunction, N: n} }
func numpadDigit(n int) KeyID  { return KeyID{Kind: KindNumpadDigit, N: n} }
func plain(kind Kind) KeyID    { return KeyID{Kind: kind} }

// ParseOptions gates which optional key families ParseLabel and
// AllMovableKeys admit.
type ParseOptions struct {
	IncludeFKeys      bool
	FKeysMax          int
	IncludeNavigation bool
	IncludeNumpad     bool
}

// DefaultParseOptions mirrors the closed vocabulary's conservative
// defaults: no function keys, no navigation cluster, no numeric
// keypad, unless a configuration opts in.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{FKeysMax: DefaultFKeysMax}
}

// ParseLabel parses a case-insensitive key label into a KeyID. It
// returns false for plain letters (those are never optimiser-placed)
// and for anything outside the closed vocabulary or gated by opt.
func ParseLabel(label string, opt ParseOptions) (KeyID, bool) {
	s := strings.TrimSpace(label)
	if s == "" {
		return KeyID{}, false
	}

	if len(s) == 1 {
		ch := s[0]
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
			return KeyID{}, false
		}
		if ch >= '0' && ch <= '9' {
			return digit(int(ch - '0')), true
		}
	}

	t := strings.ToLower(s)

	if rest, ok := strings.CutPrefix(t, "key"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= MaxDigit {
			return digit(n), true
		}
	}

	switch t {
	case "grave", "`":
		return symbol(Backtick), true
	case "minus", "-":
		return symbol(Minus), true
	case "equal", "=":
		return symbol(Equal), true
	case "leftbracket", "[":
		return symbol(LBracket), true
	case "rightbracket", "]":
		return symbol(RBracket), true
	case "backslash", `\`:
		return symbol(Backslash), true
	case "semicolon", ";":
		return symbol(Semicolon), true
	case "apostrophe", "'":
		return symbol(Quote), true
	case "comma", ",":
		return symbol(Comma), true
	case "period", "dot", ".":
		return symbol(Period), true
	case "slash", "/":
		return symbol(Slash), true
	}

	switch t {
	case "tab":
		return plain(KindTab), true
	case "escape":
		return plain(KindEscape), true
	case "capslock":
		return plain(KindCapsLock), true
	case "delete":
		return plain(KindDelete), true
	case "backspace":
		return plain(KindBackspace), true
	case "space", "spacebar":
		return plain(KindSpace), true
	case "enter", "return":
		return plain(KindEnter), true
	case "leftshift":
		return plain(KindShiftL), true
	case "rightshift":
		return plain(KindShiftR), true
	case "leftcontrol":
		return plain(KindCtrlL), true
	case "rightcontrol":
		return plain(KindCtrlR), true
	case "leftalt", "loption":
		return plain(KindAltL), true
	case "rightalt", "roption":
		return plain(KindAltR), true
	case "leftmeta", "command":
		return plain(KindMetaL), true
	case "rightmeta", "rcommand":
		return plain(KindMetaR), true
	}

	switch t {
	case "arrowleft", "left":
		return arrow(Left), true
	case "arrowright", "right":
		return arrow(Right), true
	case "arrowup", "up":
		return arrow(Up), true
	case "arrowdown", "down":
		return arrow(Down), true
	}

	if opt.IncludeNavigation {
		switch t {
		case "home":
			return plain(KindHome), true
		case "end":
			return plain(KindEnd), true
		case "pageup":
			return plain(KindPageUp), true
		case "pagedown":
			return plain(KindPageDown), true
		case "insert":
			return plain(KindInsert), true
		}
	}

	if opt.IncludeFKeys {
		if rest, ok := strings.CutPrefix(t, "f"); ok {
			if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= opt.FKeysMax {
				return function(n), true
			}
		}
	}

	if opt.IncludeNumpad {
		if rest, ok := strings.CutPrefix(t, "numpad"); ok {
			switch rest {
			case "add":
				return plain(KindNumpadAdd), true
			case "subtract":
				return plain(KindNumpadSubtract), true
			case "multiply":
				return plain(KindNumpadMultiply), true
			case "divide":
				return plain(KindNumpadDivide), true
			case "enter":
				return plain(KindNumpadEnter), true
			case "equals":
				return plain(KindNumpadEquals), true
			case "decimal":
				return plain(KindNumpadDecimal), true
			default:
				if n, err := strconv.Atoi(rest); err == nil && n >= 0 && n <= MaxNumpadDigit {
					return numpadDigit(n), true
				}
			}
		}
	}

	return KeyID{}, false
}

// AllMovableKeys enumerates the full closed vocabulary admitted by
// opt, in a stable order: digits, symbols, the core modifier/editing
// keys, function keys, arrows, navigation, then numpad.
func AllMovableKeys(opt ParseOptions) []KeyID {
	var v []KeyID

	for d := 0; d <= MaxDigit; d++ {
		v = append(v, digit(d))
	}

	for _, s := range []Symbol{Backtick, Minus, Equal, LBracket, RBracket, Backslash, Semicolon, Quote, Comma, Period, Slash} {
		v = append(v, symbol(s))
	}

	v = append(v,
		plain(KindTab), plain(KindEscape), plain(KindCapsLock), plain(KindDelete),
		plain(KindBackspace), plain(KindSpace), plain(KindEnter),
		plain(KindShiftL), plain(KindShiftR), plain(KindCtrlL), plain(KindCtrlR),
		plain(KindAltL), plain(KindAltR), plain(KindMetaL), plain(KindMetaR),
	)

	if opt.IncludeFKeys {
		for n := 1; n <= opt.FKeysMax; n++ {
			v = append(v, function(n))
		}
	}

	for _, d := range AllDirections() {
		v = append(v, arrow(d))
	}

	if opt.IncludeNavigation {
		v = append(v, plain(KindHome), plain(KindEnd), plain(KindPageUp), plain(KindPageDown), plain(KindInsert))
	}

	if opt.IncludeNumpad {
		for n := 0; n <= MaxNumpadDigit; n++ {
			v = append(v, numpadDigit(n))
		}
		v = append(v,
			plain(KindNumpadAdd), plain(KindNumpadSubtract), plain(KindNumpadMultiply),
			plain(KindNumpadDivide), plain(KindNumpadEnter), plain(KindNumpadEquals), plain(KindNumpadDecimal),
		)
	}

	return v
}

// oneWidth and varWidths are the two width-candidate sets a key can be
// assigned: keys whose glyph is intrinsically 1u (digits, arrows,
// function keys, the numeric keypad) against everything else, which
// may be widened in 0.25u steps up to 2.50u.
var (
	oneWidth  = []float64{1.00}
	varWidths = []float64{1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50}
)

// AllowedWidths returns the width candidates, in u, admissible for a
// key's Kind.
func AllowedWidths(k KeyID) []float64 {
	switch k.Kind {
	case KindDigit, KindFunction, KindArrow, KindNumpadDigit,
		KindNumpadAdd, KindNumpadSubtract, KindNumpadMultiply, KindNumpadDivide,
		KindNumpadEnter, KindNumpadEquals, KindNumpadDecimal:
		return oneWidth
	default:
		return varWidths
	}
}

// FrequencyTable holds raw per-key press counts gathered from one or
// more input sources, and can normalise them into a probability
// distribution over the keys actually observed.
type FrequencyTable struct {
	counts map[KeyID]uint64
	total  uint64
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[KeyID]uint64)}
}

// Add adds n presses of key to the table.
func (ft *FrequencyTable) Add(key KeyID, n uint64) {
	ft.counts[key] += n
	ft.total += n
}

// Merge folds another table's counts into this one.
func (ft *FrequencyTable) Merge(other *FrequencyTable) {
	for k, n := range other.counts {
		ft.counts[k] += n
	}
	ft.total += other.total
}

// Count returns the raw press count recorded for key.
func (ft *FrequencyTable) Count(key KeyID) uint64 { return ft.counts[key] }

// Total returns the sum of all recorded counts.
func (ft *FrequencyTable) Total() uint64 { return ft.total }

// IsEmpty reports whether no key has been recorded.
func (ft *FrequencyTable) IsEmpty() bool { return len(ft.counts) == 0 }

// UniqueKeys returns the number of distinct keys recorded.
func (ft *FrequencyTable) UniqueKeys() int { return len(ft.counts) }

// Probabilities returns each recorded key's share of the total press
// count. It returns an empty map if the table has no presses at all.
func (ft *FrequencyTable) Probabilities() map[KeyID]float64 {
	probs := make(map[KeyID]float64, len(ft.counts))
	if ft.total == 0 {
		return probs
	}
	denom := float64(ft.total)
	for k, n := range ft.counts {
		probs[k] = float64(n) / denom
	}
	return probs
}
