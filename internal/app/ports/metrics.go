package ports

type TurnMetrics interface {
	RecordSubmission(code string)
	RecordResolution(finished bool)
	RecordFinalization(err error)
}
