// Package confirm holds the operator confirmation policies used to gate a run.
package confirm

//go:generate mockgen --source confirm.go --destination mocks.go --package confirm

// Confirmer asks the operator whether to go on. Returning false aborts the run.
type Confirmer interface {
	Confirm(message string) bool
}

// Func adapts a plain function to a Confirmer.
type Func func(message string) bool

func (f Func) Confirm(message string) bool {
	return f(message)
}

// Always answers every prompt with the same value. Always(true) backs --yes.
func Always(answer bool) Confirmer {
	return Func(func(string) bool { return answer })
}

// Scripted replays a fixed list of answers and records the prompts it saw.
// Prompts past the end of the script are declined.
type Scripted struct {
	Answers []bool
	Prompts []string
}

func (s *Scripted) Confirm(message string) bool {
	idx := len(s.Prompts)
	s.Prompts = append(s.Prompts, message)
	if idx >= len(s.Answers) {
		return false
	}
	return s.Answers[idx]
}
