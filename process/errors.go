package process

import "errors"

// ErrNilStorage signals that a nil storage implementation was provided
var ErrNilStorage = errors.New("nil storage")

// ErrNilEvaluator signals that a nil evaluator implementation was provided
var ErrNilEvaluator = errors.New("nil evaluator")

// ErrEmptyHost signals a caller contract violation: boundary validation should
// have rejected the sample before it reached the pipeline
var ErrEmptyHost = errors.New("empty host in metric sample")
