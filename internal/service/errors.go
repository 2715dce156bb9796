package service

import "errors"

var (
	// ErrReconnectRequired means the stored Strava credentials are unusable
	// and the athlete has to log in again.
	ErrReconnectRequired = errors.New("strava connection expired, please reconnect your account")

	// ErrInvalidPlanInput rejects a weekly plan before any computation runs
	ErrInvalidPlanInput = errors.New("invalid plan input")
)
