package models

// DLState is the state of a download task.
type DLState int

// Download task states.
const (
	StatePending DLState = iota
	StateFetching
	StateLocating
	StateRenaming
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StatePending:  "PENDING",
	StateFetching: "FETCHING",
	StateLocating: "LOCATING",
	StateRenaming: "RENAMING",
	StateDone:     "DONE",
	StateFailed:   "FAILED",
}

func (s DLState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}
