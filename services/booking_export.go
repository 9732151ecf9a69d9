package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"BookingID", "Homestay", "Tourist", "Phone", "CheckIn", "CheckOut", "Nights",
	"Rooms", "Guests", "PricePerNight", "SubTotal", "PointsRedeemed", "PointsDiscount",
	"TotalPrice", "Status", "PaymentMethod", "PaymentStatus", "CreatedAt",
}

// ExportAll renders the admin booking list as an xlsx workbook.
func (s *BookingService) ExportAll(ctx context.Context, p Principal, rawStatus string) (*excelize.File, error) {
	list, err := s.ListAll(ctx, p, rawStatus)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}

	for i, b := range list {
		row := []interface{}{
			b.ID,
			b.Homestay.Name,
			b.Tourist.Name,
			b.Tourist.PhoneNumber,
			b.CheckIn.Format(dateLayout),
			b.CheckOut.Format(dateLayout),
			b.Nights,
			b.Rooms,
			b.Guests,
			b.PricePerNight.InexactFloat64(),
			b.SubTotal.InexactFloat64(),
			b.PointsRedeemed,
			b.PointsDiscount.InexactFloat64(),
			b.TotalPrice.InexactFloat64(),
			string(b.Status),
			string(b.PaymentMethod),
			string(b.PaymentStatus),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	return f, nil
}
