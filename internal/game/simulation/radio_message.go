package simulation

import "atc-planner/pkg/types"

type RadioMessage struct {
	// GameTimeSeconds is when the message was sent, in simulated time.
	GameTimeSeconds float64
	Callsign        types.AircraftID
	Message         string
	IsUrgent        bool
}

func (s *Simulation) addRadioMessage(callsign types.AircraftID, message string, isUrgent bool) {
	msg := RadioMessage{
		GameTimeSeconds: s.GameTimeSeconds,
		Callsign:        callsign,
		Message:         message,
		IsUrgent:        isUrgent,
	}
	s.RadioLog = append(s.RadioLog, msg)

	if len(s.RadioLog) > s.maxRadioLogSize {
		s.RadioLog = s.RadioLog[len(s.RadioLog)-s.maxRadioLogSize:]
	}
}
