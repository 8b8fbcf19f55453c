package core

// Status is the application-level outcome of an API call.
// It travels as the plain-text body of a 200 response.
type Status string

const (
	StatusTableNotFound Status = "table does not exist"
	StatusTabNotFound   Status = "tab does not exist"
	StatusNoData        Status = "received no POST JSON data"
	StatusIDNotFound    Status = "id does not exist"
	StatusUpdated       Status = "updated"
	StatusInserted      Status = "inserted"
	StatusDeleted       Status = "deleted"

	// StatusUnknown is never sent by the server. Clients use it for any body
	// that does not match a known status.
	StatusUnknown Status = ""
)

var knownStatuses = map[string]Status{
	string(StatusTableNotFound): StatusTableNotFound,
	string(StatusTabNotFound):   StatusTabNotFound,
	string(StatusNoData):        StatusNoData,
	string(StatusIDNotFound):    StatusIDNotFound,
	string(StatusUpdated):       StatusUpdated,
	string(StatusInserted):      StatusInserted,
	string(StatusDeleted):       StatusDeleted,
}

// ParseStatus maps a response body to a Status.
// Unrecognized text yields StatusUnknown.
func ParseStatus(body string) Status {
	if s, ok := knownStatuses[body]; ok {
		return s
	}
	return StatusUnknown
}

// Success reports whether the status means the mutation was applied.
func (s Status) Success() bool {
	switch s {
	case StatusUpdated, StatusInserted, StatusDeleted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	if s == StatusUnknown {
		return "unknown"
	}
	return string(s)
}
