package fitimport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"ridecoach/internal/store"
)

func TestFromSession(t *testing.T) {
	start := time.Date(2024, 5, 4, 7, 30, 0, 0, time.UTC)

	s := fit.NewSessionMsg()
	s.StartTime = start
	s.Sport = fit.SportCycling
	// FIT stores milliseconds and centimeters
	s.TotalTimerTime = 5400 * 1000
	s.TotalElapsedTime = 6000 * 1000
	s.TotalDistance = 45000 * 100
	s.TotalAscent = 620
	s.AvgPower = 205
	s.MaxPower = 710
	s.AvgHeartRate = 148

	a, err := fromSession(s, 9)
	require.NoError(t, err)

	assert.Equal(t, -start.Unix(), a.ID)
	assert.Equal(t, int64(9), a.AthleteID)
	assert.Equal(t, "Ride", a.Type)
	assert.Equal(t, store.SourceFIT, a.Source)
	assert.Equal(t, 5400, a.MovingTime)
	assert.Equal(t, 6000, a.ElapsedTime)
	assert.InDelta(t, 45000, a.Distance, 0.01)
	assert.Equal(t, 620.0, a.TotalElevationGain)
	require.NotNil(t, a.AverageWatts)
	assert.Equal(t, 205.0, *a.AverageWatts)
	assert.Equal(t, 710.0, *a.MaxWatts)
	assert.Equal(t, 148.0, *a.AverageHeartrate)
	assert.Nil(t, a.MaxHeartrate, "unset heart rate stays missing")
	assert.Contains(t, a.Name, "2024-05-04")
}

func TestFromSession_MissingFields(t *testing.T) {
	s := fit.NewSessionMsg()
	s.StartTime = time.Date(2024, 5, 4, 7, 30, 0, 0, time.UTC)
	s.Sport = fit.SportRunning
	s.TotalElapsedTime = 1800 * 1000

	a, err := fromSession(s, 1)
	require.NoError(t, err)
	assert.Equal(t, "Run", a.Type)
	assert.Equal(t, 1800, a.MovingTime, "moving time falls back to elapsed")
	assert.Zero(t, a.Distance)
	assert.Zero(t, a.TotalElevationGain)
	assert.Nil(t, a.AverageWatts)
	assert.Nil(t, a.AverageHeartrate)
}

func TestFromSession_VirtualRide(t *testing.T) {
	s := fit.NewSessionMsg()
	s.StartTime = time.Now()
	s.Sport = fit.SportCycling
	s.SubSport = fit.SubSportVirtualActivity

	a, err := fromSession(s, 1)
	require.NoError(t, err)
	assert.Equal(t, "VirtualRide", a.Type)
}

func TestFromSession_NoStartTime(t *testing.T) {
	_, err := fromSession(fit.NewSessionMsg(), 1)
	assert.Error(t, err)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a fit file")), 1)
	assert.ErrorContains(t, err, "decoding FIT file")
}
