package analyzer

import "errors"

var (
	ErrUnknownAnalyzer = errors.New("unknown analyzer")
	ErrAnalyzerFailed  = errors.New("analyzer failed")
)
