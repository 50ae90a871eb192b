package http

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"udhar-ledger/internal/adapter/export"
	"udhar-ledger/internal/adapter/middleware"
	"udhar-ledger/internal/domain/upload"
	"udhar-ledger/internal/usecase/loan"
)

type LoanHandler struct {
	responder
	uc     *loan.Usecase
	events EventRecorder
}

func NewLoanHandler(uc *loan.Usecase, events EventRecorder, log *zap.Logger) *LoanHandler {
	if events == nil {
		events = nopEvents{}
	}
	return &LoanHandler{responder: newResponder(log), uc: uc, events: events}
}

// SubmitLoan accepts a JSON body or a multipart form carrying the optional
// user_image and cnic_image files.
func (h *LoanHandler) SubmitLoan(c echo.Context) error {
	var (
		req     loan.SubmitInput
		closers []multipart.File
	)
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := submitFromForm(c, &req); err != nil {
			return h.fail(c, err)
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
		}
		for _, field := range []string{"user_image", "cnic_image"} {
			fh, err := c.FormFile(field)
			if err != nil {
				continue
			}
			f, err := fh.Open()
			if err != nil {
				h.log.Warn("upload unreadable", zap.String("field", field), zap.Error(err))
				continue
			}
			closers = append(closers, f)
			file := &upload.File{Name: fh.Filename, Content: f}
			if field == "user_image" {
				req.UserImage = file
			} else {
				req.CNICImage = file
			}
		}
	} else if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	dto, err := h.uc.Submit(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	h.events.LedgerEvent("submitted")
	return c.JSON(http.StatusCreated, dto)
}

func submitFromForm(c echo.Context, req *loan.SubmitInput) error {
	req.BorrowerName = c.FormValue("borrower_name")
	req.FatherName = c.FormValue("father_name")
	req.Phone = c.FormValue("phone")
	req.CNIC = c.FormValue("cnic")
	req.Address = c.FormValue("address")

	var err error
	if req.Principal, err = formFloat(c, "principal"); err != nil {
		return err
	}
	if req.Days, err = formInt(c, "days"); err != nil {
		return err
	}
	if req.Installments, err = formInt(c, "installments"); err != nil {
		return err
	}
	if raw := strings.TrimSpace(c.FormValue("interest_rate")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest("interest_rate must be a number")
		}
		req.InterestRate = &rate
	}
	return nil
}

func formFloat(c echo.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest(name + " must be a number")
	}
	return v, nil
}

func formInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return v, nil
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListMyLoans(c echo.Context) error {
	list, err := h.uc.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) ExportMyLoans(c echo.Context) error {
	list, err := h.uc.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return writeCSV(c, "my_loans.csv", func(buf *bytes.Buffer) error {
		return export.WriteLoansCSV(buf, list)
	})
}

// Agreement renders the loan agreement PDF with the CNIC masked.
func (h *LoanHandler) Agreement(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c), c.Param("loan_id"))
	if err != nil {
		return h.fail(c, err)
	}
	var buf bytes.Buffer
	if err := export.WriteAgreementPDF(&buf, *dto); err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="agreement_%s.pdf"`, dto.LoanID))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// writeCSV renders into memory first so a rendering error still yields a
// clean error response.
func writeCSV(c echo.Context, filename string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
