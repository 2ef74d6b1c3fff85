package usecase

import (
	"bytes"
	"fmt"
	"strings"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/utils"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	scanPayloadPrefix = "BOOKMYSHOW"
	defaultScreen     = "Screen 1"
	exportTimeLayout  = "1/2/2006, 3:04:05 PM"
	ticketRule        = "================================="
	ScanCodeSize      = 300
)

// TicketFormatter turns a confirmed booking into its receipt and exports.
// Every method is a pure function of its arguments.
type TicketFormatter interface {
	BuildReceipt(booking *entity.Booking, show *entity.Show, selection []entity.Seat, paymentMethod string) *entity.Receipt
	BuildScanPayload(booking *entity.Booking, movieTitle string, seatCount int) string
	BuildExportText(receipt *entity.Receipt) string
	RenderScanCode(payload string, size int) ([]byte, error)
	BuildTicketPDF(receipt *entity.Receipt) ([]byte, error)
	ExportFileName(receipt *entity.Receipt, ext string) string
}

type ticketFormatter struct {
	pricing  PricingEngine
	currency string
}

func NewTicketFormatter(pricing PricingEngine, currency string) TicketFormatter {
	return &ticketFormatter{pricing: pricing, currency: currency}
}

func (f *ticketFormatter) BuildReceipt(booking *entity.Booking, show *entity.Show, selection []entity.Seat, paymentMethod string) *entity.Receipt {
	seats := append([]entity.Seat(nil), selection...)
	labels := make([]string, len(seats))
	for i, s := range seats {
		labels[i] = s.Label()
	}

	receipt := &entity.Receipt{
		BookingID:      booking.BookingID,
		TransactionID:  booking.TransactionID,
		Seats:          seats,
		SeatLabels:     labels,
		TicketCount:    len(seats),
		PaymentMethod:  paymentMethod,
		Amount:         booking.Amount,
		EstimatedTotal: f.pricing.Total(seats),
		Currency:       f.currency,
	}
	if show != nil {
		receipt.MovieTitle = show.MovieTitle
		receipt.ShowTime = show.StartTime
		receipt.ScreenID = show.ScreenID
	}
	receipt.ScanPayload = f.BuildScanPayload(booking, receipt.MovieTitle, len(seats))

	return receipt
}

// BuildScanPayload is BOOKMYSHOW|bookingId|movie|seatCount|amount.
func (f *ticketFormatter) BuildScanPayload(booking *entity.Booking, movieTitle string, seatCount int) string {
	return strings.Join([]string{
		scanPayloadPrefix,
		booking.BookingID,
		movieTitle,
		fmt.Sprintf("%d", seatCount),
		utils.FormatAmount(booking.Amount),
	}, "|")
}

// BuildExportText renders the downloadable text ticket. The show time is
// printed in its own location so the output depends only on receipt.
func (f *ticketFormatter) BuildExportText(receipt *entity.Receipt) string {
	screen := receipt.ScreenID
	if screen == "" {
		screen = defaultScreen
	}

	var b strings.Builder
	b.WriteString(ticketRule + "\n")
	b.WriteString("       🎬 BOOKMYSHOW TICKET\n")
	b.WriteString(ticketRule + "\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Booking ID: %s\n", receipt.BookingID)
	fmt.Fprintf(&b, "Transaction: %s\n", receipt.TransactionID)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Movie: %s\n", receipt.MovieTitle)
	fmt.Fprintf(&b, "Date & Time: %s\n", receipt.ShowTime.Format(exportTimeLayout))
	fmt.Fprintf(&b, "Screen: %s\n", screen)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Seats: %s\n", strings.Join(receipt.SeatLabels, ", "))
	fmt.Fprintf(&b, "Tickets: %d\n", receipt.TicketCount)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Payment: %s\n", receipt.PaymentMethod)
	fmt.Fprintf(&b, "Amount Paid: %s%.2f\n", receipt.Currency, receipt.Amount)
	b.WriteString("\n")
	b.WriteString(ticketRule + "\n")
	b.WriteString("      THANK YOU FOR BOOKING!\n")
	b.WriteString(ticketRule + "\n")

	return b.String()
}

// RenderScanCode encodes payload as a PNG QR code of size x size pixels.
func (f *ticketFormatter) RenderScanCode(payload string, size int) ([]byte, error) {
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate scan code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode scan code to PNG: %w", err)
	}
	return png, nil
}

// BuildTicketPDF lays out the printable ticket with the scan code on top.
func (f *ticketFormatter) BuildTicketPDF(receipt *entity.Receipt) ([]byte, error) {
	png, err := f.RenderScanCode(receipt.ScanPayload, ScanCodeSize)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Ticket "+receipt.BookingID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "BOOKMYSHOW TICKET", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	imgName := "scan_" + receipt.BookingID
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(png))
	pageW, _ := pdf.GetPageSize()
	codeSize := 60.0
	pdf.ImageOptions(imgName, (pageW-codeSize)/2, pdf.GetY(), codeSize, codeSize, false, imgOpts, 0, "")
	pdf.Ln(codeSize + 4)

	screen := receipt.ScreenID
	if screen == "" {
		screen = defaultScreen
	}

	rows := [][2]string{
		{"Booking ID", receipt.BookingID},
		{"Transaction", receipt.TransactionID},
		{"Movie", receipt.MovieTitle},
		{"Date & Time", receipt.ShowTime.Format(exportTimeLayout)},
		{"Screen", screen},
		{"Seats", strings.Join(receipt.SeatLabels, ", ")},
		{"Tickets", fmt.Sprintf("%d", receipt.TicketCount)},
		{"Payment", receipt.PaymentMethod},
		// Core PDF fonts have no rupee glyph.
		{"Amount Paid", fmt.Sprintf("Rs. %.2f", receipt.Amount)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(35, 7, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 7, row[1], "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 11)
	pdf.CellFormat(0, 8, "THANK YOU FOR BOOKING!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFileName is ticket_{bookingId}.{ext}.
func (f *ticketFormatter) ExportFileName(receipt *entity.Receipt, ext string) string {
	return fmt.Sprintf("ticket_%s.%s", receipt.BookingID, ext)
}
