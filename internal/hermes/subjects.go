package hermes

const (
	StreamName   = "TOPSIS_EVENTS"
	StreamMaxAge = "168h" // 7 days

	subjectPrefix = "topsis.run."
)

// StreamSubjects are captured by the JetStream stream.
var StreamSubjects = []string{subjectPrefix + ">"}

func SubjectRunCompleted(runID string) string { return subjectPrefix + runID + ".completed" }
func SubjectRunFailed(runID string) string    { return subjectPrefix + runID + ".failed" }
func SubjectRunDelivered(runID string) string { return subjectPrefix + runID + ".delivered" }
