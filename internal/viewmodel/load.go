package viewmodel

// LoadState tells a page whether its read produced rows, no rows, or failed.
type LoadState string

const (
	Loaded LoadState = "loaded"
	Empty  LoadState = "empty"
	Failed LoadState = "failed"
)

// Load is the outcome of one page read.
type Load struct {
	State   LoadState
	Count   int
	Message string
}

// NewLoad classifies a fetch outcome. failMessage is shown in the error
// banner when err is set.
func NewLoad(count int, err error, failMessage string) Load {
	switch {
	case err != nil:
		return Load{State: Failed, Message: failMessage}
	case count == 0:
		return Load{State: Empty}
	default:
		return Load{State: Loaded, Count: count}
	}
}

func (l Load) IsLoaded() bool { return l.State == Loaded }
func (l Load) IsEmpty() bool  { return l.State == Empty }
func (l Load) IsFailed() bool { return l.State == Failed }
