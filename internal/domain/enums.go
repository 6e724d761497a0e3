package domain

// GenerationStatus represents the outcome of processing a single feed row.
type GenerationStatus string

const (
	GenerationStatusSuccess      GenerationStatus = "SUCCESS"
	GenerationStatusNonCompliant GenerationStatus = "NON_COMPLIANT"
	GenerationStatusFailed       GenerationStatus = "FAILED"
)

// ValidGenerationStatuses maps the persisted status strings back to GenerationStatus.
var ValidGenerationStatuses = map[string]GenerationStatus{
	"SUCCESS":       GenerationStatusSuccess,
	"NON_COMPLIANT": GenerationStatusNonCompliant,
	"FAILED":        GenerationStatusFailed,
}

// AttributeKind classifies a generated attribute against the original input.
type AttributeKind string

const (
	// AttributeCarriedOver: key and a non-empty value already existed in the input.
	AttributeCarriedOver AttributeKind = "carried_over"
	// AttributeGapFilled: key existed with an empty value (or was replaced) and the model supplied one.
	AttributeGapFilled AttributeKind = "gap_filled"
	// AttributeInvented: key is absent from the input entirely.
	AttributeInvented AttributeKind = "invented"
)

// RunStatus represents the lifecycle of an asynchronous generation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ValidationSeverity decides whether a failed validation makes a row non-compliant.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)
