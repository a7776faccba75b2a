package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates an invalid run configuration or weight
	// table: zero/negative total weight, a negative weight, a
	// non-positive target, a split ratio outside [0,1], or a remainder
	// adjustment that would drive a quota negative. Fatal: the build
	// aborts before any selection happens.
	ErrConfiguration = errors.New("configuration error")

	// ErrInsufficientPool indicates the combined pool could not fill the
	// global target even after the reconciler exhausted every region's
	// leftover historical records. This is a data condition, not a
	// failure: the build still returns the undersized list and reports
	// the shortfall.
	ErrInsufficientPool = errors.New("insufficient record pool")

	// ErrBuildInProgress indicates a list build is already running.
	ErrBuildInProgress = errors.New("build in progress")

	// ErrExportFailed indicates the generated list could not be written
	// for dialer consumption.
	ErrExportFailed = errors.New("export failed")

	// ErrNotifyFailed indicates the status notification could not be
	// delivered after retrying.
	ErrNotifyFailed = errors.New("notification failed")
)
