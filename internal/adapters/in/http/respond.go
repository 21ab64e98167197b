package http

import (
	"errors"
	"net/http"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type caller struct {
	accountID kernel.UUID
	profileID *kernel.UUID
}

func callerOf(ctx echo.Context) (caller, error) {
	raw := ctx.Request().Header.Get(HeaderAccountID)
	if raw == "" {
		return caller{}, errs.NewValueIsRequiredError(HeaderAccountID)
	}
	accountID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return caller{}, errs.NewValueIsInvalidErrorWithCause(HeaderAccountID, err)
	}

	c := caller{accountID: accountID}
	if raw = ctx.Request().Header.Get(HeaderProfileID); raw != "" {
		profileID, profileErr := kernel.UUIDFromString(raw)
		if profileErr != nil {
			return caller{}, errs.NewValueIsInvalidErrorWithCause(HeaderProfileID, profileErr)
		}
		c.profileID = &profileID
	}
	return c, nil
}

func parseUUIDs(param string, raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(param, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errs.NewValueIsRequiredError(param)
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return day, nil
}

func ok(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, result{Success: true})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, result{Message: message})
}

// respondError maps domain errors onto status codes. Unknown errors are not
// echoed back to the caller.
func respondError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, result{})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		ctx.Logger().Error(err)
		return ctx.JSON(http.StatusInternalServerError, result{Message: "internal error"})
	}
}
