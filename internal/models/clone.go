package models

// Clone returns a deep copy of the template. Sessions are materialized from
// copies, never from live references, so later edits to a session can never
// reach back into the template.
func (w WorkoutTemplate) Clone() WorkoutTemplate {
	out := w
	out.Exercises = make([]TemplateEntry, len(w.Exercises))
	for i, e := range w.Exercises {
		out.Exercises[i] = e.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry.
func (e TemplateEntry) Clone() TemplateEntry {
	out := e
	if e.RestSecondsOverride != nil {
		v := *e.RestSecondsOverride
		out.RestSecondsOverride = &v
	}
	out.TargetSets = make([]TargetSet, len(e.TargetSets))
	copy(out.TargetSets, e.TargetSets)
	return out
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := p
	out.Workouts = make([]WorkoutTemplate, len(p.Workouts))
	for i, w := range p.Workouts {
		out.Workouts[i] = w.Clone()
	}
	return out
}

// Clone returns a deep copy of the session.
func (s *ActiveSession) Clone() *ActiveSession {
	if s == nil {
		return nil
	}
	out := *s
	out.ProgramID = cloneInt64(s.ProgramID)
	out.WorkoutIndex = cloneInt(s.WorkoutIndex)
	out.Week = cloneInt(s.Week)
	out.StandaloneID = cloneInt64(s.StandaloneID)
	out.ResumingHistoryID = cloneInt64(s.ResumingHistoryID)
	out.Exercises = make([]SessionExercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		ec := ex
		ec.Sets = make([]SessionSet, len(ex.Sets))
		copy(ec.Sets, ex.Sets)
		out.Exercises[i] = ec
	}
	return &out
}

// Clone returns a deep copy of the record.
func (r HistoryRecord) Clone() HistoryRecord {
	out := r
	out.ProgramID = cloneInt64(r.ProgramID)
	out.WorkoutIndex = cloneInt(r.WorkoutIndex)
	out.Week = cloneInt(r.Week)
	out.Exercises = make([]HistoryExercise, len(r.Exercises))
	for i, ex := range r.Exercises {
		ec := ex
		ec.Sets = make([]HistorySet, len(ex.Sets))
		copy(ec.Sets, ex.Sets)
		out.Exercises[i] = ec
	}
	return out
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
