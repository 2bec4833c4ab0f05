package report

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	// SummarySheet holds the per-member totals
	SummarySheet = "Summary"

	// DetailSheet holds one row per unpaid recipient entry
	DetailSheet = "Granular Details"
)

// DefaultOutputPath is used when no output flag is given
const DefaultOutputPath = "spond_payment_report.xlsx"

// WriteWorkbook writes the report as an Excel workbook with a Summary sheet
// (per-member totals, highest first) and a Granular Details sheet. Amount
// cells keep two decimal places.
func WriteWorkbook(r *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return errors.Wrap(err, "failed to create detail sheet")
	}

	// Two decimal places, the currency minor unit
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return errors.Wrap(err, "failed to create amount style")
	}

	if err := writeSummarySheet(f, r, amountStyle); err != nil {
		return err
	}
	if err := writeDetailSheet(f, r, amountStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to write workbook to %s", path)
	}

	return nil
}

func writeSummarySheet(f *excelize.File, r *Report, amountStyle int) error {
	headers := []interface{}{"Member Name", "Member ID", "Currency", "Amount Owed"}
	if err := f.SetSheetRow(SummarySheet, "A1", &headers); err != nil {
		return errors.Wrap(err, "failed to write summary header")
	}

	for i, total := range r.MemberTotals() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address summary row")
		}

		row := []interface{}{
			total.MemberName,
			total.MemberID,
			total.Currency,
			total.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return errors.Wrap(err, "failed to write summary row")
		}

		amountCell, err := excelize.CoordinatesToCellName(4, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address summary amount cell")
		}
		if err := f.SetCellStyle(SummarySheet, amountCell, amountCell, amountStyle); err != nil {
			return errors.Wrap(err, "failed to style summary amount cell")
		}
	}

	return nil
}

func writeDetailSheet(f *excelize.File, r *Report, amountStyle int) error {
	headers := []interface{}{"Member Name", "Member ID", "Payment Name", "Payment ID", "Amount Owed", "Currency", "Status"}
	if err := f.SetSheetRow(DetailSheet, "A1", &headers); err != nil {
		return errors.Wrap(err, "failed to write detail header")
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address detail row")
		}

		values := []interface{}{
			row.MemberName,
			row.MemberID,
			row.PaymentName,
			row.PaymentID,
			row.Amount.InexactFloat64(),
			row.Currency,
			row.Status,
		}
		if err := f.SetSheetRow(DetailSheet, cell, &values); err != nil {
			return errors.Wrap(err, "failed to write detail row")
		}

		amountCell, err := excelize.CoordinatesToCellName(5, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address detail amount cell")
		}
		if err := f.SetCellStyle(DetailSheet, amountCell, amountCell, amountStyle); err != nil {
			return errors.Wrap(err, "failed to style detail amount cell")
		}
	}

	return nil
}
