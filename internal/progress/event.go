package progress

// Kind classifies one line of child process output
type Kind int

const (
	// KindGeneric lines carry no progress information
	KindGeneric Kind = iota
	// KindTotalFound announces the number of items the job will process
	KindTotalFound
	// KindItemDone reports one item downloaded or skipped
	KindItemDone
	// KindJobComplete is emitted once when completed reaches a known total
	KindJobComplete
)

// String returns a short name of the kind
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindTotalFound:
		return "total-found"
	case KindItemDone:
		return "item-done"
	case KindJobComplete:
		return "job-complete"
	default:
		return "unknown"
	}
}

// Event is a classified outcome derived from one line of output
type Event struct {
	Kind Kind
	// Line is the text to log. Apply rewrites it for KindItemDone.
	Line string
	// Total is set for KindTotalFound
	Total int
}
