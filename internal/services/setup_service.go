package services

type AccountCounter interface {
	CountUsers() (int64, error)
}

// SetupStatus describes the accounts present when the process starts.
type SetupStatus struct {
	Accounts    int64
	NeedsRoster bool
}

// InspectSetup counts stored accounts. A read failure is returned unchanged so
// an unreadable users table is never mistaken for an empty one.
func InspectSetup(users AccountCounter) (SetupStatus, error) {
	count, err := users.CountUsers()
	if err != nil {
		return SetupStatus{}, err
	}
	return SetupStatus{Accounts: count, NeedsRoster: count == 0}, nil
}
