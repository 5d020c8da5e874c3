package receipts

import (
	"fmt"
	"io"

	"donation-app/internal/domain/donations"

	"github.com/jung-kurt/gofpdf"
)

// Brand palette for the rendered receipt.
var (
	colorPrimary      = [3]int{92, 184, 92}
	colorPrimaryLight = [3]int{232, 245, 232}
	colorDark         = [3]int{26, 26, 26}
	colorMediumGray   = [3]int{102, 102, 102}
)

func renderReceiptPDF(w io.Writer, receipt *donations.Receipt, donation *donations.Donation) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, 210, 48, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(15, 10)
	pdf.CellFormat(180, 10, "DONATION TRUST", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(15, 20)
	pdf.CellFormat(180, 6, "Transforming Lives Through Giving", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 34)
	pdf.CellFormat(210, 10, "DONOR RECEIPT", "", 1, "C", false, 0, "")

	// Receipt info box
	pdf.SetFillColor(colorPrimaryLight[0], colorPrimaryLight[1], colorPrimaryLight[2])
	pdf.Rect(12, 56, 186, 18, "F")

	pdf.SetTextColor(colorMediumGray[0], colorMediumGray[1], colorMediumGray[2])
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(18, 59)
	pdf.CellFormat(80, 4, "RECEIPT NUMBER", "", 0, "L", false, 0, "")
	pdf.SetXY(120, 59)
	pdf.CellFormat(60, 4, "ISSUE DATE", "", 1, "L", false, 0, "")

	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(18, 64)
	pdf.CellFormat(95, 6, receipt.ReceiptNumber, "", 0, "L", false, 0, "")
	pdf.SetTextColor(colorDark[0], colorDark[1], colorDark[2])
	pdf.SetXY(120, 64)
	pdf.CellFormat(60, 6, receipt.Date.Format("02 Jan 2006"), "", 1, "L", false, 0, "")

	// Donation details
	rows := [][2]string{
		{"Donor Name", receipt.DonorName},
		{"Amount", fmt.Sprintf("Rs. %.2f", receipt.Amount)},
		{"Donation Type", receipt.DonationType},
		{"Category", receipt.DonationCategory},
		{"Payment Method", donation.PaymentMethod},
		{"Status", donation.Status},
	}
	if donation.Campaign != nil {
		rows = append(rows, [2]string{"Campaign", donation.Campaign.Name})
	}

	y := 86.0
	for _, row := range rows {
		pdf.SetTextColor(colorMediumGray[0], colorMediumGray[1], colorMediumGray[2])
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(18, y)
		pdf.CellFormat(60, 8, row[0], "", 0, "L", false, 0, "")

		pdf.SetTextColor(colorDark[0], colorDark[1], colorDark[2])
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(80, y)
		pdf.CellFormat(110, 8, row[1], "", 1, "L", false, 0, "")

		y += 10
	}

	// Footer
	pdf.SetDrawColor(217, 217, 217)
	pdf.Line(15, 265, 195, 265)
	pdf.SetTextColor(colorMediumGray[0], colorMediumGray[1], colorMediumGray[2])
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(0, 270)
	pdf.CellFormat(210, 5, "This is a computer-generated receipt and does not require a signature.", "", 1, "C", false, 0, "")
	pdf.SetXY(0, 276)
	pdf.CellFormat(210, 5, "Thank you for your generosity.", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
