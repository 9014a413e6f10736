package export

// Kind distinguishes the two task families the poller tracks.
type Kind string

const (
	// KindExport is a quiz export / generate-similar job.
	KindExport Kind = "export"
	// KindProcessing is an uploaded-file processing job.
	KindProcessing Kind = "processing"
)

// StatusTimedOut is the local terminal status assigned when a task exhausts
// the polling budget without the backend reporting a terminal state. The
// backend never emits it.
const StatusTimedOut = "TIMED_OUT"
