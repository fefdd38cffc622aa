package calibspec

import "errors"

// ErrConfig is the sentinel wrapped by every calibration-document validation
// failure. Callers match with errors.Is(err, calibspec.ErrConfig).
var ErrConfig = errors.New("invalid calibration document")
