package form

type Mode int

const (
	// edits update the value but leave prior errors untouched
	ModeDormant Mode = iota
	// every edit re-runs the field validator
	ModeLive
)

// Policy decides whether an edit to a field triggers re-validation. A
// field is live while it is focused, and every field becomes
// permanently live once the form has been submitted at least once.
type Policy struct {
	focused   map[Field]struct{}
	submitted bool
}

func NewPolicy() *Policy {
	return &Policy{focused: make(map[Field]struct{})}
}

func (p *Policy) Focus(field Field) {
	p.focused[field] = struct{}{}
}

func (p *Policy) Blur(field Field) {
	delete(p.focused, field)
}

func (p *Policy) MarkSubmitted() {
	p.submitted = true
}

func (p *Policy) Submitted() bool {
	return p.submitted
}

func (p *Policy) ModeOf(field Field) Mode {
	if p.submitted {
		return ModeLive
	}
	if _, ok := p.focused[field]; ok {
		return ModeLive
	}
	return ModeDormant
}

func (p *Policy) Focused() []Field {
	fields := make([]Field, 0, len(p.focused))
	for field := range p.focused {
		fields = append(fields, field)
	}
	return fields
}
