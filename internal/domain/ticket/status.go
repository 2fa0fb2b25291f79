package ticket

// ===============================
// Ticket Status
// ===============================

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusServing   Status = "serving"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	// StatusCancelled is part of the stored vocabulary but no operation
	// exposed over HTTP produces it.
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusServing, StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusCancelled
}

func InitialStatus() Status {
	return StatusWaiting
}

// ===============================
// Transitions
// ===============================

type Action string

const (
	ActionCall     Action = "call"
	ActionComplete Action = "complete"
	ActionSkip     Action = "skip"
	ActionCancel   Action = "cancel"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Action]transition{
	ActionCall:     {from: []Status{StatusWaiting}, to: StatusServing},
	ActionComplete: {from: []Status{StatusServing}, to: StatusCompleted},
	ActionSkip:     {from: []Status{StatusWaiting, StatusServing}, to: StatusSkipped},
	ActionCancel:   {from: []Status{StatusWaiting}, to: StatusCancelled},
}

// Transition returns the status a ticket in from reaches through action,
// or ErrInvalidState when the move is not allowed.
func Transition(action Action, from Status) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrInvalidState
	}
	for _, s := range t.from {
		if s == from {
			return t.to, nil
		}
	}
	return "", ErrInvalidState
}

// ===============================
// Validations
// ===============================

func CanCall(current Status) error {
	_, err := Transition(ActionCall, current)
	return err
}

func CanComplete(current Status) error {
	_, err := Transition(ActionComplete, current)
	return err
}

func CanSkip(current Status) error {
	_, err := Transition(ActionSkip, current)
	return err
}

func CanCancel(current Status) error {
	_, err := Transition(ActionCancel, current)
	return err
}
