package quizbank

// StaticRegistry is an immutable in-memory registry.
type StaticRegistry struct {
	entries  map[string]Entry
	fallback Entry
}

// NewStaticRegistry copies entries so later changes to the caller's map or
// slices do not leak into lookups.
func NewStaticRegistry(entries map[string]Entry, fallback Entry) *StaticRegistry {
	m := make(map[string]Entry, len(entries))
	for id, e := range entries {
		m[id] = Entry{Templates: cloneTemplates(e.Templates), Meta: cloneMeta(e.Meta)}
	}
	return &StaticRegistry{
		entries:  m,
		fallback: Entry{Templates: cloneTemplates(fallback.Templates), Meta: cloneMeta(fallback.Meta)},
	}
}

func (r *StaticRegistry) Templates(courseID string) []QuestionTemplate {
	if e, ok := r.entries[courseID]; ok {
		return cloneTemplates(e.Templates)
	}
	return cloneTemplates(r.fallback.Templates)
}

func (r *StaticRegistry) Meta(courseID string) CourseMeta {
	if e, ok := r.entries[courseID]; ok {
		return cloneMeta(e.Meta)
	}
	return cloneMeta(r.fallback.Meta)
}

// Has reports whether courseID has its own entry.
func (r *StaticRegistry) Has(courseID string) bool {
	_, ok := r.entries[courseID]
	return ok
}

// CourseIDs lists the registered identifiers (unordered).
func (r *StaticRegistry) CourseIDs() []string {
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}

// Entries returns a copy of all registered entries and the fallback.
func (r *StaticRegistry) Entries() (map[string]Entry, Entry) {
	m := make(map[string]Entry, len(r.entries))
	for id, e := range r.entries {
		m[id] = Entry{Templates: cloneTemplates(e.Templates), Meta: cloneMeta(e.Meta)}
	}
	return m, Entry{Templates: cloneTemplates(r.fallback.Templates), Meta: cloneMeta(r.fallback.Meta)}
}
