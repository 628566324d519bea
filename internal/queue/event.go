// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into passenger
// notifications and e-tickets.
package queue

// TicketSeat is one assigned seat as carried in a ticket event.
type TicketSeat struct {
	Number    string `json:"number"`
	Class     string `json:"class"`
	Passenger string `json:"passenger"`
}

// TicketEvent is published when a booking is confirmed or cancelled.
// It is enriched with journey and seat detail at publish time so
// downstream consumers can notify, render tickets or feed analytics
// without querying the primary database.  Kind doubles as the queue
// name the event is delivered on.
type TicketEvent struct {
	Kind             string       `json:"kind"`
	BookingID        uint64       `json:"booking_id"`
	Reference        string       `json:"reference"`
	UserID           uint64       `json:"user_id"`
	ScheduleID       uint64       `json:"schedule_id"`
	TrainName        string       `json:"train_name"`
	TrainNumber      string       `json:"train_number"`
	DepartureStation string       `json:"departure_station"`
	ArrivalStation   string       `json:"arrival_station"`
	DepartsAt        string       `json:"departs_at"`
	ArrivesAt        string       `json:"arrives_at"`
	TotalAmountCents int64        `json:"total_amount_cents"`
	Seats            []TicketSeat `json:"seats"`
	OccurredAt       string       `json:"occurred_at"`
}
