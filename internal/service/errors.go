package service

import "errors"

// Sentinel errors returned by the desktop, session and pairing services.
// Handlers map these onto HTTP statuses; none of them are retried.
var (
	// ErrStudentNotFound indicates the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrDesktopNotFound indicates the referenced desktop does not exist.
	ErrDesktopNotFound = errors.New("desktop not found")
	// ErrSessionNotFound indicates the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrActiveSessionExists rejects a start while the student already has an
	// active session.
	ErrActiveSessionExists = errors.New("student already has an active session")
	// ErrDesktopUnavailable rejects a start against a desktop whose status is
	// anything other than "available".
	ErrDesktopUnavailable = errors.New("desktop is not available")
	// ErrDesktopAlreadyPaired rejects pairing a desktop that is bound to a
	// different device.
	ErrDesktopAlreadyPaired = errors.New("desktop already paired to another device")

	// ErrDeviceRequired rejects a non-admin start that carries no device
	// identifier.
	ErrDeviceRequired = errors.New("device identifier required")
	// ErrDeviceNotPaired rejects a non-admin start whose device is not paired
	// to the requested desktop.
	ErrDeviceNotPaired = errors.New("device is not paired to this desktop")
	// ErrNotSessionOwner rejects ending a session the caller neither owns nor
	// administers.
	ErrNotSessionOwner = errors.New("not authorized to end this session")

	// ErrDurationOutOfRange rejects session durations outside [15,240] minutes.
	ErrDurationOutOfRange = errors.New("duration must be between 15 and 240 minutes")
	// ErrInvalidStatus rejects desktop status values outside the known set.
	ErrInvalidStatus = errors.New("invalid desktop status")
	// ErrInvalidDeviceUUID rejects malformed device identifiers.
	ErrInvalidDeviceUUID = errors.New("invalid device uuid")
)
