package form

import "time"

// Store owns the current snapshot, the error map, the focus set and
// the submitted flag. Every mutation is synchronous and total: bad
// input becomes a stored value plus an error message, never a
// rejection. Not safe for concurrent use; callers serialize access.
type Store struct {
	snap   EventForm
	errs   map[Field]string
	policy *Policy
}

// NewStore starts an empty create-flow form.
func NewStore() *Store {
	return &Store{
		snap: EventForm{
			Type:     EventOneTime,
			Capacity: CapacityMin,
		},
		errs:   make(map[Field]string),
		policy: NewPolicy(),
	}
}

// NewStoreFrom starts an edit-flow form from a loaded record.
func NewStoreFrom(snap *EventForm) *Store {
	return &Store{
		snap:   *snap.Clone(),
		errs:   make(map[Field]string),
		policy: NewPolicy(),
	}
}

func (s *Store) Snapshot() EventForm {
	return *s.snap.Clone()
}

func (s *Store) Errors() map[Field]string {
	out := make(map[Field]string, len(s.errs))
	for field, msg := range s.errs {
		out[field] = msg
	}
	return out
}

func (s *Store) HasSubmitted() bool {
	return s.policy.Submitted()
}

func (s *Store) Focused() []Field {
	return s.policy.Focused()
}

func (s *Store) SetFocus(field Field) {
	s.policy.Focus(field)
}

func (s *Store) ClearFocus(field Field) {
	s.policy.Blur(field)
}

func (s *Store) SetTitle(title string) {
	s.snap.Title = title
	s.revalidate(FieldTitle)
}

func (s *Store) SetDescription(description string) {
	s.snap.Description = description
	s.revalidate(FieldDescription)
}

func (s *Store) SetType(eventType EventType) {
	s.snap.Type = eventType
	s.revalidate(FieldType)
	// a recurring/one-time flip changes what the repeat fields require
	s.revalidate(FieldRepeatFrequency)
	s.revalidate(FieldRepeatDays)
}

func (s *Store) SetLocations(locations []Location) {
	s.snap.Locations = append([]Location(nil), locations...)
	s.revalidate(FieldLocations)
}

func (s *Store) SetStartDate(date time.Time) {
	s.snap.StartDate = date
	s.revalidate(FieldStartDate)
}

func (s *Store) SetEndDate(date time.Time) {
	s.snap.EndDate = date
	s.revalidate(FieldEndDate)
}

func (s *Store) SetStartTime(clock string) {
	s.snap.StartTime = clock
	s.revalidate(FieldStartTime)
}

func (s *Store) SetEndTime(clock string) {
	s.snap.EndTime = clock
	s.revalidate(FieldEndTime)
}

func (s *Store) SetRepeatFrequency(freq RepeatFrequency) {
	s.snap.RepeatFrequency = freq
	s.revalidate(FieldRepeatFrequency)
	s.revalidate(FieldRepeatDays)
}

func (s *Store) SetRepeatDays(days []time.Weekday) {
	s.snap.RepeatDays = append([]time.Weekday(nil), days...)
	s.revalidate(FieldRepeatDays)
}

func (s *Store) SetTags(tags []string) {
	s.snap.Tags = append([]string(nil), tags...)
	s.revalidate(FieldTags)
}

func (s *Store) SetCapacity(capacity int) {
	s.snap.Capacity = capacity
	s.revalidate(FieldCapacity)
}

func (s *Store) SetAccess(access AccessLevel) {
	s.snap.Access = access
	s.revalidate(FieldAccess)
}

// AttemptSubmit validates every field unconditionally, swaps in the
// freshly computed error map and marks the form as submitted for the
// rest of the session. Returns the error map and overall validity.
func (s *Store) AttemptSubmit() (map[Field]string, bool) {
	s.policy.MarkSubmitted()
	s.errs = ValidateAll(&s.snap)
	return s.Errors(), len(s.errs) == 0
}

func (s *Store) revalidate(field Field) {
	if s.policy.ModeOf(field) != ModeLive {
		return
	}
	s.apply(field, Validate(field, &s.snap))
	// editing either time field can flip the shared range check
	if field == FieldStartTime || field == FieldEndTime {
		s.apply(FieldTime, Validate(FieldTime, &s.snap))
	}
}

func (s *Store) apply(field Field, msg string) {
	if msg == "" {
		delete(s.errs, field)
		return
	}
	s.errs[field] = msg
}
