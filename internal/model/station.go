package model

import "time"

// Station is a physical railway station that routes depart from or
// arrive at.  Stations are long-lived reference data and are never
// mutated by the booking flow.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – full station name.
//	Code      – short station code (e.g. "AMS").
//	City      – city the station is located in.
//	IsActive  – whether the station is currently served.
//	CreatedAt – creation timestamp.
type Station struct {
	ID        uint64    // stations.id
	Name      string    // stations.name
	Code      string    // stations.code
	City      string    // stations.city
	IsActive  bool      // stations.is_active
	CreatedAt time.Time // stations.created_at
}
