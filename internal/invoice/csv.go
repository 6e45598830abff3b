// invoice/csv.go
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

// ErrNoBillableHours is returned when an invoice's line quantities sum to
// zero and no blended rate can be derived.
var ErrNoBillableHours = errors.New("invoice has no billable hours")

// VendorProfile is the static vendor identity and contact data embedded in
// every Kforce CSV, unrelated to the invoice itself.
type VendorProfile struct {
	VendorID       string
	VendorName     string
	Address        string
	City           string
	State          string
	Zip            string
	ConsultantID   string
	ConsultantName string
	ContactName    string
	Phone          string
	Email          string
}

// csvHeader is the fixed 17-column header Kforce expects.
const csvHeader = "Vendor ID,Vendor Name,Vendor Address 1,Vendor City,Vendor State,Vendor Zip,Invoice ID,Consultant ID,Consultant Name,W/E Start Date,W/E EndDate,Hours,Rate,Total Due,Vendor Contact Name,Vendor Phone,Vendor Email"

// KforceCSV renders one invoice as a Kforce timesheet CSV: the fixed header
// plus exactly one data row. The week bounds come from the invoice creation
// date; hours are the summed line quantities and the rate is the blended
// rate over those hours. Fields are joined raw, without CSV quoting, to stay
// byte-compatible with the format Kforce already accepts.
func KforceCSV(inv *fbclient.Invoice, vendor VendorProfile) (string, error) {
	createDate, err := time.Parse("2006-01-02", inv.CreateDate)
	if err != nil {
		return "", fmt.Errorf("invalid invoice create date %q: %w", inv.CreateDate, err)
	}

	weekStart := mondayOf(createDate)
	weekEnd := weekStart.AddDate(0, 0, 6)

	var hours, lineTotal float64
	for _, line := range inv.Lines {
		hours += line.Quantity
		lineTotal += line.Amount
	}
	if hours == 0 {
		return "", ErrNoBillableHours
	}
	rate := lineTotal / hours

	row := strings.Join([]string{
		vendor.VendorID,
		vendor.VendorName,
		vendor.Address,
		vendor.City,
		vendor.State,
		vendor.Zip,
		inv.ID,
		vendor.ConsultantID,
		vendor.ConsultantName,
		formatKforceDate(weekStart),
		formatKforceDate(weekEnd),
		fmt.Sprintf("%.2f", hours),
		fmt.Sprintf("%.2f", rate),
		fmt.Sprintf("%.2f", inv.TotalAmount),
		vendor.ContactName,
		vendor.Phone,
		vendor.Email,
	}, ",")

	return csvHeader + "\n" + row, nil
}

// mondayOf returns the Monday of the week containing date. Sunday belongs to
// the preceding week and rolls back six days.
func mondayOf(date time.Time) time.Time {
	offset := int(date.Weekday()) - 1
	if date.Weekday() == time.Sunday {
		offset = 6
	}
	return date.AddDate(0, 0, -offset)
}

// formatKforceDate renders M/D/YYYY with no zero padding.
func formatKforceDate(date time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(date.Month()), date.Day(), date.Year())
}
