package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/booking"
	"github.com/railbook/train-ticket-booking/internal/model"
	"github.com/railbook/train-ticket-booking/internal/repository"
)

// maxPassengersPerBooking caps one booking at six travellers; larger
// groups book twice.
const maxPassengersPerBooking = 6

// BookingHandler exposes the booking lifecycle over HTTP.  All
// endpoints require an authenticated user; the coordinator enforces
// ownership on top of that.
type BookingHandler struct {
	Coordinator *booking.Coordinator
	Bookings    *repository.BookingRepo
	Payments    *repository.PaymentRepo
}

func NewBookingHandler(co *booking.Coordinator, b *repository.BookingRepo, p *repository.PaymentRepo) *BookingHandler {
	return &BookingHandler{Coordinator: co, Bookings: b, Payments: p}
}

// ----- DTOs -----

type passengerReq struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
	IdentityNumber string `json:"identity_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

type createBookingReq struct {
	ScheduleID uint64         `json:"schedule_id"`
	SeatClass  string         `json:"seat_class"`
	Passengers []passengerReq `json:"passengers"`
	SeatIDs    []uint64       `json:"seat_ids"`
}

type bookingResp struct {
	ID               uint64    `json:"id"`
	Reference        string    `json:"reference"`
	ScheduleID       uint64    `json:"schedule_id"`
	Passengers       uint32    `json:"passengers"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type bookingDetailResp struct {
	bookingResp
	Seats   []repository.SeatDetail `json:"seats"`
	Payment *paymentResp            `json:"payment,omitempty"`
}

type paymentReq struct {
	Method string `json:"method"`
}

type paymentResp struct {
	ID            uint64 `json:"id"`
	BookingID     uint64 `json:"booking_id"`
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:               b.ID,
		Reference:        b.Reference,
		ScheduleID:       b.ScheduleID,
		Passengers:       b.NumberOfPassengers,
		TotalAmountCents: b.TotalAmountCents,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
	}
}

// Create handles POST /v1/bookings.  Input shape problems are rejected
// here; booking preconditions are left to the coordinator so its error
// ordering holds.
func (h *BookingHandler) Create(c echo.Context) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Passengers) > maxPassengersPerBooking {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a booking is limited to 6 passengers"})
	}

	passengers := make([]model.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger name required"})
		}
		dob, err := time.Parse("2006-01-02", p.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_of_birth, want YYYY-MM-DD"})
		}
		passengers[i] = model.Passenger{
			FirstName:      strings.TrimSpace(p.FirstName),
			LastName:       strings.TrimSpace(p.LastName),
			DateOfBirth:    dob,
			IdentityNumber: strings.TrimSpace(p.IdentityNumber),
			Phone:          strings.TrimSpace(p.Phone),
			Email:          strings.TrimSpace(p.Email),
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Coordinator.CreateBooking(ctx, booking.CreateRequest{
		ScheduleID: req.ScheduleID,
		SeatClass:  model.SeatClass(strings.ToUpper(strings.TrimSpace(req.SeatClass))),
		Passengers: passengers,
		SeatIDs:    req.SeatIDs,
		UserID:     who.UserID,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// List handles GET /v1/bookings: the caller's own bookings.
func (h *BookingHandler) List(c echo.Context) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Coordinator.ListBookings(ctx, who)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResp, len(list))
	for i := range list {
		out[i] = toBookingResp(&list[i])
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/bookings/:id with seat detail.
func (h *BookingHandler) Get(c echo.Context) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Coordinator.GetBooking(ctx, id, who)
	if err != nil {
		return bookingError(c, err)
	}
	return h.bookingDetail(c, ctx, b)
}

// GetByReference handles GET /v1/bookings/ref/:reference.
func (h *BookingHandler) GetByReference(c echo.Context) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("reference")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Coordinator.GetBookingByReference(ctx, ref, who)
	if err != nil {
		return bookingError(c, err)
	}
	return h.bookingDetail(c, ctx, b)
}

// bookingDetail renders a booking with its seats and, when one has
// been recorded, its payment.
func (h *BookingHandler) bookingDetail(c echo.Context, ctx context.Context, b *model.Booking) error {
	seats, err := h.Bookings.SeatDetails(ctx, b.ID)
	if err != nil {
		return bookingError(c, err)
	}
	resp := bookingDetailResp{bookingResp: toBookingResp(b), Seats: seats}
	if p, err := h.Payments.GetByBooking(ctx, b.ID); err == nil && p != nil {
		resp.Payment = &paymentResp{
			ID:            p.ID,
			BookingID:     p.BookingID,
			AmountCents:   p.AmountCents,
			Method:        p.Method,
			Status:        p.Status,
			TransactionID: p.TransactionID,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Confirm handles POST /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.applyTransition(c, h.Coordinator.ConfirmBooking)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.applyTransition(c, h.Coordinator.CancelBooking)
}

func (h *BookingHandler) applyTransition(c echo.Context,
	op func(context.Context, uint64, booking.Identity) (*model.Booking, error)) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := op(ctx, id, who)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Pay handles POST /v1/bookings/:id/payment: records a completed
// payment for the booking's total and confirms it in one step.
func (h *BookingHandler) Pay(c echo.Context) error {
	who, err := identityFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	switch method {
	case model.MethodCreditCard, model.MethodDebitCard, model.MethodBankTransfer:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment method"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	p, err := h.Coordinator.RecordPayment(ctx, id, method, who)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, paymentResp{
		ID:            p.ID,
		BookingID:     p.BookingID,
		AmountCents:   p.AmountCents,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
	})
}

// CompleteDue handles POST /v1/admin/bookings/complete-due: flips
// confirmed bookings of past journeys to COMPLETED.  Admin only.
func (h *BookingHandler) CompleteDue(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	n, err := h.Coordinator.CompleteDueBookings(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"completed": n})
}
