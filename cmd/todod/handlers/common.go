package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
	domerr "github.com/opst/todofab/pkg/domain/errors"
)

// decodeJSON reads the request body as JSON.
//
// Requests with other content type are rejected.
func decodeJSON[T any](c echo.Context) (T, error) {
	req := c.Request()
	var body T

	mediatype, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil || mediatype != echo.MIMEApplicationJSON {
		return body, apierr.BadRequest(
			"unexpected content type. it should be application/json", err,
		)
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return body, apierr.BadRequest("can not understand the requested json", err)
	}
	return body, nil
}

// pathId takes an uuid from path parameter.
func pathId(c echo.Context, param string) (string, error) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apierr.BadRequest("invalid id: "+raw, err)
	}
	return id.String(), nil
}

// queryInt parses query parameter as integer. When absent, it returns defaultValue.
func queryInt(c echo.Context, key string, defaultValue int) (int, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.BadRequest(key+" should be an integer", err)
	}
	return n, nil
}

// asHTTPError converts errors from domains into HTTP errors.
//
// what names the entity, and used in 404 messages.
func asHTTPError(err error, what string) error {
	if err == nil {
		return nil
	}
	if herr := new(echo.HTTPError); errors.As(err, &herr) {
		return herr
	}
	switch {
	case errors.Is(err, domerr.ErrMissing):
		return apierr.NotFound(what)
	case errors.Is(err, domerr.ErrInvalidValue), errors.Is(err, domerr.ErrInvalidState):
		return apierr.BadRequest(err.Error(), err)
	case errors.Is(err, domerr.ErrConflict):
		return apierr.Conflict(err.Error(), apierr.WithError(err))
	}
	return apierr.InternalServerError(err)
}
