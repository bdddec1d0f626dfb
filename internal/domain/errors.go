package domain

import "errors"

// ErrValidation is returned when an input fails a business rule
// (e.g. a missing identifier, a clock offset that is not H:M:S, or a
// photo batch that would produce colliding filenames).
var ErrValidation = errors.New("validation error")

// ErrEmptyTable is returned by steps that require a non-empty telemetry
// or photo table. Building an empty table is never an error by itself;
// depending on one is.
var ErrEmptyTable = errors.New("empty table")

// ErrAlreadyRenamed is returned when the rename step finds files that
// already carry the survey prefix. Renaming twice would double-prefix
// every file, so the step refuses loudly instead of guessing.
var ErrAlreadyRenamed = errors.New("files already renamed")
