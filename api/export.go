package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"workroll/export"
)

func (h *handlers) exportRecords(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return fail(c, "decode", fmt.Errorf("%w: %v", errInvalidRequest, err))
	}
	f, err := recordFilterFrom(c)
	if err != nil {
		return fail(c, "decode", err)
	}
	resp, err := h.populatedRecords(c.Request().Context(), c.Param("ws"), f)
	if err != nil {
		return fail(c, "storage", err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, "Records", export.Rows(resp.Records)); err != nil {
		return fail(c, "encode_response", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "records."+string(format)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
