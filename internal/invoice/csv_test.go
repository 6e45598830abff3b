// invoice/csv_test.go
package invoice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

var testVendor = VendorProfile{
	VendorID:       "V100",
	VendorName:     "Crestline Consulting",
	Address:        "12 Main St",
	City:           "Columbia",
	State:          "SC",
	Zip:            "29201",
	ConsultantID:   "C200",
	ConsultantName: "Jordan Hale",
	ContactName:    "Sam Rivers",
	Phone:          "803-555-0100",
	Email:          "billing@crestline.example",
}

func TestKforceCSV_WednesdayInvoice(t *testing.T) {
	// 2024-03-13 is a Wednesday; the containing week is Mon 3/11 - Sun 3/17.
	inv := &fbclient.Invoice{
		ID:          "9001",
		CreateDate:  "2024-03-13",
		TotalAmount: 787.50,
		Lines: []fbclient.Line{
			{Quantity: 10, Amount: 500},
			{Quantity: 5, Amount: 250},
		},
	}

	csv, err := KforceCSV(inv, testVendor)
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, csvHeader, lines[0])

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 17)
	require.Equal(t, "V100", fields[0])
	require.Equal(t, "9001", fields[6])
	require.Equal(t, "3/11/2024", fields[9], "week start should be the Monday on/before the create date")
	require.Equal(t, "3/17/2024", fields[10], "week end should be Monday+6")
	require.Equal(t, "15.00", fields[11], "hours are summed line quantities")
	require.Equal(t, "50.00", fields[12], "rate is blended over total hours")
	require.Equal(t, "787.50", fields[13], "Total Due comes from the invoice, not a recomputation")
	require.Equal(t, "billing@crestline.example", fields[16])
}

func TestKforceCSV_SundayRollsBackToPriorWeek(t *testing.T) {
	// 2024-03-17 is a Sunday; it belongs to the week starting Mon 3/11.
	inv := &fbclient.Invoice{
		ID:         "9002",
		CreateDate: "2024-03-17",
		Lines:      []fbclient.Line{{Quantity: 8, Amount: 400}},
	}

	csv, err := KforceCSV(inv, testVendor)
	require.NoError(t, err)

	fields := strings.Split(strings.Split(csv, "\n")[1], ",")
	require.Equal(t, "3/11/2024", fields[9])
	require.Equal(t, "3/17/2024", fields[10])
}

func TestKforceCSV_MondayIsItsOwnWeekStart(t *testing.T) {
	inv := &fbclient.Invoice{
		ID:         "9003",
		CreateDate: "2024-03-11",
		Lines:      []fbclient.Line{{Quantity: 1, Amount: 75}},
	}

	csv, err := KforceCSV(inv, testVendor)
	require.NoError(t, err)

	fields := strings.Split(strings.Split(csv, "\n")[1], ",")
	require.Equal(t, "3/11/2024", fields[9])
}

func TestKforceCSV_UnpaddedDates(t *testing.T) {
	// 2024-07-03 is a Wednesday; week is 7/1 - 7/7, single-digit throughout.
	inv := &fbclient.Invoice{
		ID:         "9004",
		CreateDate: "2024-07-03",
		Lines:      []fbclient.Line{{Quantity: 4, Amount: 300}},
	}

	csv, err := KforceCSV(inv, testVendor)
	require.NoError(t, err)

	fields := strings.Split(strings.Split(csv, "\n")[1], ",")
	require.Equal(t, "7/1/2024", fields[9])
	require.Equal(t, "7/7/2024", fields[10])
}

func TestKforceCSV_ZeroHours(t *testing.T) {
	inv := &fbclient.Invoice{
		ID:         "9005",
		CreateDate: "2024-03-13",
		Lines:      []fbclient.Line{{Quantity: 0, Amount: 100}},
	}

	_, err := KforceCSV(inv, testVendor)
	require.ErrorIs(t, err, ErrNoBillableHours)
}

func TestKforceCSV_BadCreateDate(t *testing.T) {
	inv := &fbclient.Invoice{
		ID:         "9006",
		CreateDate: "03/13/2024",
		Lines:      []fbclient.Line{{Quantity: 1, Amount: 100}},
	}

	_, err := KforceCSV(inv, testVendor)
	require.Error(t, err)
}
