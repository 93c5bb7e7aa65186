package fee

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NewReceiptNumber returns RCP-<year>-<6 random digits>.
// Uniqueness is probabilistic; no collision check is made.
func NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("RCP-%d-%d", now.Year(), 100000+rand.Intn(900000))
}

const receiptRule = "======================================"
const receiptSep = "--------------------------------------"

// ReceiptText renders a plain-text receipt for a paid or partially paid fee.
func ReceiptText(f Fee) string {
	balance := f.AmountDue - f.AmountPaid
	status := "PARTIAL PAYMENT"
	if balance <= 0 {
		status = "PAID IN FULL"
	}
	receiptNo := "N/A"
	if f.ReceiptNumber.Valid {
		receiptNo = f.ReceiptNumber.String
	}
	receivedBy := "Admin"
	if f.UpdatedByName.Valid {
		receivedBy = f.UpdatedByName.String
	}

	var b strings.Builder
	lines := []string{
		receiptRule,
		"         EDUCORE SCHOOL",
		"      OFFICIAL FEE RECEIPT",
		receiptRule,
		"Receipt No   : " + receiptNo,
		"Date         : " + f.PaidDate.String,
		fmt.Sprintf("Academic Year: %s  |  Term: %d", f.AcademicYear, f.Term),
		receiptSep,
		"Student      : " + f.StudentName(),
		"Student ID   : " + f.StudentID,
		receiptSep,
		fmt.Sprintf("Amount Due   : ₹%.2f", f.AmountDue),
		fmt.Sprintf("Amount Paid  : ₹%.2f", f.AmountPaid),
		fmt.Sprintf("Balance      : ₹%.2f", balance),
		"Status       : " + status,
		receiptSep,
		"Received By  : " + receivedBy,
		receiptRule,
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
