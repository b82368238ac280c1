package services

import "errors"

var ErrSessionTransition = errors.New("session transition not allowed")

type EntrySessionState string

const (
	EntrySessionIdle             EntrySessionState = "idle"
	EntrySessionEditing          EntrySessionState = "editing"
	EntrySessionConfirmingDelete EntrySessionState = "confirming_delete"
)

// EntrySession is the per-login view state of the report page: which entry,
// if any, is loaded into the edit form or awaiting delete confirmation.
// Transitions return a new value and never mutate the receiver.
type EntrySession struct {
	State   EntrySessionState `json:"state"`
	EntryID uint              `json:"entry_id,omitempty"`
}

func IdleEntrySession() EntrySession {
	return EntrySession{State: EntrySessionIdle}
}

// Normalize maps unknown or inconsistent values to Idle.
func (session EntrySession) Normalize() EntrySession {
	switch session.State {
	case EntrySessionEditing, EntrySessionConfirmingDelete:
		if session.EntryID == 0 {
			return IdleEntrySession()
		}
		return session
	default:
		return IdleEntrySession()
	}
}

// BeginEdit loads an entry into the form. Picking another row while already
// editing retargets the form.
func (session EntrySession) BeginEdit(entryID uint) (EntrySession, error) {
	current := session.Normalize()
	if entryID == 0 || current.State == EntrySessionConfirmingDelete {
		return current, ErrSessionTransition
	}
	return EntrySession{State: EntrySessionEditing, EntryID: entryID}, nil
}

// FinishEdit returns the edited entry id and the Idle session to store once
// the save went through.
func (session EntrySession) FinishEdit() (EntrySession, uint, error) {
	current := session.Normalize()
	if current.State != EntrySessionEditing {
		return current, 0, ErrSessionTransition
	}
	return IdleEntrySession(), current.EntryID, nil
}

func (session EntrySession) CancelEdit() (EntrySession, error) {
	current := session.Normalize()
	if current.State != EntrySessionEditing {
		return current, ErrSessionTransition
	}
	return IdleEntrySession(), nil
}

func (session EntrySession) RequestDelete(entryID uint) (EntrySession, error) {
	current := session.Normalize()
	if entryID == 0 || current.State == EntrySessionEditing {
		return current, ErrSessionTransition
	}
	return EntrySession{State: EntrySessionConfirmingDelete, EntryID: entryID}, nil
}

func (session EntrySession) ConfirmDelete() (EntrySession, uint, error) {
	current := session.Normalize()
	if current.State != EntrySessionConfirmingDelete {
		return current, 0, ErrSessionTransition
	}
	return IdleEntrySession(), current.EntryID, nil
}

func (session EntrySession) CancelDelete() (EntrySession, error) {
	current := session.Normalize()
	if current.State != EntrySessionConfirmingDelete {
		return current, ErrSessionTransition
	}
	return IdleEntrySession(), nil
}
