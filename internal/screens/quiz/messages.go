package quiz

import "github.com/abhisek/thetaquiz/internal/session"

// itemMsg carries the result of ServeNext.
type itemMsg struct {
	Result *session.NextResult
	Err    error
}

// gradedMsg carries the result of GradeResponse.
type gradedMsg struct {
	Answer string
	Result *session.GradeResult
	Err    error
}

// finishedMsg carries the final status once every round is played.
type finishedMsg struct {
	Status *session.Status
	Err    error
}
