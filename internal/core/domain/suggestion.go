package domain

// LengthCandidate is one rewrite proposed by the length suggestion loop.
type LengthCandidate struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
	Valid  bool   `json:"valid"`

	// Distance is how many characters the text lies outside the target
	// band, in either direction. Zero when valid.
	Distance int `json:"distance"`
}

// Suggestion is a proposed fix for one checklist item.
type Suggestion struct {
	Code string `json:"code"`

	// Body is the human-readable suggestion (Markdown). On failure it holds
	// the error description instead.
	Body string `json:"body"`

	// Candidates is set for length rules (CV-002, CV-006).
	Candidates []LengthCandidate `json:"candidates,omitempty"`

	// Rounds is the number of generation rounds used by the length loop.
	Rounds int `json:"rounds,omitempty"`

	// Failed is true when the generation service could not be used.
	Failed bool `json:"failed,omitempty"`
}

// ValidCandidates returns the candidates within the target band.
func (s Suggestion) ValidCandidates() []LengthCandidate {
	var out []LengthCandidate
	for _, c := range s.Candidates {
		if c.Valid {
			out = append(out, c)
		}
	}
	return out
}
