package autosave

// A Status is the save state displayed to the user.
//
//	Idle -> Saving -> Saved | Error -> Idle
type Status int

// Save statuses.
const (
	Idle Status = iota
	Saving
	Saved
	Error
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}
