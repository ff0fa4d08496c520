package common

// Department is stamped on every generated vignette.
const Department = "SAFE"

// Vignette origins.
const (
	OriginConfig     = "config"
	OriginManualEdit = "manual-edit"
	OriginDuplicate  = "duplicate"
)

// Preparation statuses.
const (
	PreparationNone       = "none"
	PreparationInProgress = "in-progress"
	PreparationDone       = "done"
)
