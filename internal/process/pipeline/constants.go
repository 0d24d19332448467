package pipeline

// Log field constants
const (
	LogFieldCorrelationID = "correlation_id"
	LogFieldCount         = "count"
	LogFieldMethod        = "method"
	LogFieldOutcome       = "outcome"
	LogFieldThreshold     = "threshold"
	LogFieldTaskIndex     = "task_index"
	LogFieldConfidence    = "confidence"
)

// Drop reasons reported to metrics and logs.
const (
	dropReasonLowConfidence    = "low_confidence"
	dropReasonEmptyDescription = "empty_description"
)

// Log message constants
const (
	logMsgRunStarted  = "starting extraction run"
	logMsgRunFinished = "extraction run finished"
	logMsgTaskDropped = "task dropped"
)
