package usecase

import (
	"bytes"
	"testing"
	"time"

	"cinema-checkout/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReceipt(t *testing.T) *entity.Receipt {
	t.Helper()
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")
	booking := &entity.Booking{BookingID: "B123", TransactionID: "TXN42", Amount: 240}
	show := &entity.Show{
		ID:         "s1",
		MovieTitle: "Interstellar",
		StartTime:  time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
	}
	seats := []entity.Seat{
		seat("A1", 1, 1, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
		seat("A2", 1, 2, entity.SeatTypeRecliner, entity.SeatStatusAvailable),
	}
	return formatter.BuildReceipt(booking, show, seats, "UPI")
}

func TestTicketFormatter_BuildReceipt(t *testing.T) {
	receipt := testReceipt(t)

	assert.Equal(t, "B123", receipt.BookingID)
	assert.Equal(t, "Interstellar", receipt.MovieTitle)
	assert.Equal(t, []string{"R1C1", "R1C2"}, receipt.SeatLabels)
	assert.Equal(t, 2, receipt.TicketCount)
	assert.Equal(t, "UPI", receipt.PaymentMethod)
	assert.Equal(t, "₹", receipt.Currency)
	assert.Equal(t, "BOOKMYSHOW|B123|Interstellar|2|240", receipt.ScanPayload)
}

func TestTicketFormatter_BuildReceiptWithoutShow(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")
	booking := &entity.Booking{BookingID: "B7", TransactionID: "T", Amount: 60.5}

	receipt := formatter.BuildReceipt(booking, nil, []entity.Seat{
		seat("F1", 6, 1, entity.SeatTypeRegular, entity.SeatStatusAvailable),
	}, "Wallet")

	assert.Empty(t, receipt.MovieTitle)
	assert.True(t, receipt.ShowTime.IsZero())
	assert.Equal(t, "BOOKMYSHOW|B7||1|60.5", receipt.ScanPayload)
}

func TestTicketFormatter_BuildExportText(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")

	expected := "=================================\n" +
		"       🎬 BOOKMYSHOW TICKET\n" +
		"=================================\n" +
		"\n" +
		"Booking ID: B123\n" +
		"Transaction: TXN42\n" +
		"\n" +
		"Movie: Interstellar\n" +
		"Date & Time: 3/14/2026, 7:30:00 PM\n" +
		"Screen: Screen 1\n" +
		"\n" +
		"Seats: R1C1, R1C2\n" +
		"Tickets: 2\n" +
		"\n" +
		"Payment: UPI\n" +
		"Amount Paid: ₹240.00\n" +
		"\n" +
		"=================================\n" +
		"      THANK YOU FOR BOOKING!\n" +
		"=================================\n"

	assert.Equal(t, expected, formatter.BuildExportText(testReceipt(t)))
}

func TestTicketFormatter_ExportTextUsesScreen(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")
	receipt := testReceipt(t)
	receipt.ScreenID = "Audi 4"

	assert.Contains(t, formatter.BuildExportText(receipt), "Screen: Audi 4\n")
}

func TestTicketFormatter_ExportFileName(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")
	receipt := testReceipt(t)

	tests := []struct {
		ext      string
		expected string
	}{
		{TicketFormatText, "ticket_B123.txt"},
		{TicketFormatPNG, "ticket_B123.png"},
		{TicketFormatPDF, "ticket_B123.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.ExportFileName(receipt, tt.ext))
		})
	}
}

func TestTicketFormatter_RenderScanCode(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")

	png, err := formatter.RenderScanCode(testReceipt(t).ScanPayload, ScanCodeSize)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}

func TestTicketFormatter_BuildTicketPDF(t *testing.T) {
	formatter := NewTicketFormatter(NewPricingEngine(), "₹")

	pdf, err := formatter.BuildTicketPDF(testReceipt(t))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
