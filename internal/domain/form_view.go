package domain

// Phase is the submission lifecycle state of a form.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	}
	return "unknown"
}

// NoticeKind is the visual state of the notification region.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the content of the single notification region.
type Notice struct {
	Kind    NoticeKind `json:"kind,omitempty"`
	Text    string     `json:"text,omitempty"`
	Visible bool       `json:"visible"`
}

// CharacterCount is the derived display under the message field.
type CharacterCount struct {
	Count int    `json:"count"`
	Text  string `json:"text"`
	// Warn is set while the count is outside the accepted range.
	Warn bool `json:"warn"`
}

// FormView is a declarative snapshot of everything a renderer needs to draw
// the form.
type FormView struct {
	// Seq grows with every state change; renderers can drop older views.
	Seq            uint64           `json:"seq"`
	Phase          Phase            `json:"phase"`
	Values         ContactForm      `json:"values"`
	Errors         map[Field]string `json:"errors"`
	Notice         Notice           `json:"notice"`
	Counter        CharacterCount   `json:"counter"`
	SubmitDisabled bool             `json:"submitDisabled"`
	Busy           bool             `json:"busy"`
}
