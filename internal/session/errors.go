// ABOUTME: Sentinel errors and alert messages for the session controller.
// ABOUTME: Callers match with errors.Is.
package session

import "errors"

var (
	// ErrGeolocationUnavailable means no position could be obtained. The map
	// stays disabled for the rest of the session.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")

	// ErrInvalidWorkoutInput means a required numeric field is missing,
	// non-finite, or out of range.
	ErrInvalidWorkoutInput = errors.New("invalid workout input")

	// ErrNoPendingLocation means the form was submitted before any map click.
	ErrNoPendingLocation = errors.New("no map location selected")

	// ErrMapUnavailable means the map was never loaded.
	ErrMapUnavailable = errors.New("map not loaded")

	// ErrWorkoutNotFound means no logged workout matches the given id.
	ErrWorkoutNotFound = errors.New("workout not found")

	// ErrLoopStopped is returned when work is sent to a loop that has exited.
	ErrLoopStopped = errors.New("session loop stopped")
)

// User-facing alert texts.
const (
	PositionUnavailableMessage = "Could not get your position"
	InvalidInputMessage        = "Inputs have to be positive numbers!"
)
