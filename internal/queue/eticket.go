package queue

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phpdave11/gofpdf"
)

// RenderETicket renders one A4 e-ticket PDF for a confirmed booking.
func RenderETicket(ev TicketEvent) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking reference : %s", ev.Reference),
		fmt.Sprintf("Train             : %s (%s)", ev.TrainName, ev.TrainNumber),
		fmt.Sprintf("Route             : %s -> %s", ev.DepartureStation, ev.ArrivalStation),
		fmt.Sprintf("Departs           : %s", ev.DepartsAt),
		fmt.Sprintf("Arrives           : %s", ev.ArrivesAt),
		fmt.Sprintf("Total paid        : %d.%02d", ev.TotalAmountCents/100, ev.TotalAmountCents%100),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, seat := range ev.Seats {
		pdf.Cell(0, 7, fmt.Sprintf("  Seat %-6s %-12s %s", seat.Number, seat.Class, seat.Passenger))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please have this ticket and a valid identity document ready for inspection on board.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteETicket renders the booking's e-ticket into dir, named by the
// booking reference.  An existing file for the same reference is
// overwritten; re-delivered messages are harmless.
func WriteETicket(dir string, ev TicketEvent) error {
	if dir == "" {
		dir = "tickets"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	data, err := RenderETicket(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ev.Reference+".pdf"), data, 0o644)
}
