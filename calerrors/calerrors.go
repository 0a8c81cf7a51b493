package calerrors

import "errors"

var (
	InvalidParameters = errors.New("invalid calibration parameters")
	ThresholdNotFound = errors.New("threshold not found")
	ThresholdAnomaly  = errors.New("calibration anomaly")
)
