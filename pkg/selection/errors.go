package selection

import "errors"

var (
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrSingularDesign   = errors.New("singular design: perfectly collinear features")
	ErrMissingValues    = errors.New("missing values in input")
	ErrInsufficientRows = errors.New("at least two rows are required")
)
