package model

import "time"

// Route connects a departure station to an arrival station.  A route
// carries no timing information of its own; schedules bind a train to
// a route at a concrete departure time.
//
// Fields:
//
//	ID                 – primary key identifier.
//	DepartureStationID – station the route starts at.
//	ArrivalStationID   – station the route ends at.
//	DistanceKm         – route length in kilometres.
//	DurationMin        – estimated travel time in minutes.
//	IsActive           – whether the route is currently operated.
//	CreatedAt          – creation timestamp.
type Route struct {
	ID                 uint64    // routes.id
	DepartureStationID uint64    // routes.departure_station_id
	ArrivalStationID   uint64    // routes.arrival_station_id
	DistanceKm         uint32    // routes.distance_km
	DurationMin        uint32    // routes.duration_min
	IsActive           bool      // routes.is_active
	CreatedAt          time.Time // routes.created_at
}
