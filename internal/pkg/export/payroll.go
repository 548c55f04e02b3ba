package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Register"

var registerHeadings = []string{
	"Employee Code", "Employee Name", "Working Days", "Actual Days",
	"Basic", "HRA", "DA", "Travel", "Medical", "Overtime", "Bonus", "Other Allowance",
	"Gross", "PF", "ESI", "Tax", "Loan", "Advance", "Other Deduction",
	"Total Deductions", "Net", "Status",
}

// WritePayrollRegister writes one row per record to a single-sheet xlsx
// workbook. Money columns are written as numbers so they can be summed.
func WritePayrollRegister(w io.Writer, month, year int, records []payroll.PayrollRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return err
	}

	title := fmt.Sprintf("Payroll register %04d-%02d", year, month)
	if err := f.SetCellValue(registerSheet, "A1", title); err != nil {
		return err
	}

	headings := make([]interface{}, len(registerHeadings))
	for i, h := range registerHeadings {
		headings[i] = h
	}
	if err := f.SetSheetRow(registerSheet, "A2", &headings); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(registerHeadings), 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(registerSheet, "A2", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := registerRow(r)
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(registerSheet, "A", "B", 22); err != nil {
		return err
	}

	return f.Write(w)
}

func registerRow(r payroll.PayrollRecord) []interface{} {
	code, name := "", ""
	if r.EmployeeCode != nil {
		code = *r.EmployeeCode
	}
	if r.EmployeeName != nil {
		name = *r.EmployeeName
	}

	return []interface{}{
		code,
		name,
		r.Attendance.TotalWorkingDays,
		r.Attendance.ActualWorkingDays.InexactFloat64(),
		r.BasicSalary.InexactFloat64(),
		r.Allowances.HRA.InexactFloat64(),
		r.Allowances.DA.InexactFloat64(),
		r.Allowances.Travel.InexactFloat64(),
		r.Allowances.Medical.InexactFloat64(),
		r.Allowances.Overtime.InexactFloat64(),
		r.Allowances.Bonus.InexactFloat64(),
		r.Allowances.Other.InexactFloat64(),
		r.GrossSalary.InexactFloat64(),
		r.Deductions.ProvidentFund.InexactFloat64(),
		r.Deductions.StateInsurance.InexactFloat64(),
		r.Deductions.Tax.InexactFloat64(),
		r.Deductions.Loan.InexactFloat64(),
		r.Deductions.Advance.InexactFloat64(),
		r.Deductions.Other.InexactFloat64(),
		r.TotalDeductions.InexactFloat64(),
		r.NetSalary.InexactFloat64(),
		string(r.PaymentStatus),
	}
}
