package token

// Value carries the payload a Token needs beyond its kind: the raw source
// text (for diagnostics), the start position, and the decoded value for
// tokens whose kind alone isn't enough to reconstruct one (signals,
// booleans, strings).
type Value struct {
	Raw string
	Pos Pos

	Signal uint64
	Bool   bool
	Str    string // already-unescaped
}
