package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parsePeriod reads the month and year query parameters.
func parsePeriod(r *http.Request) (month, year int, err error) {
	var errs validator.ValidationErrors

	month, convErr := strconv.Atoi(r.URL.Query().Get("month"))
	if convErr != nil || !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	year, convErr = strconv.Atoi(r.URL.Query().Get("year"))
	if convErr != nil || !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return month, year, nil
}
