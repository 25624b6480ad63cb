package utils

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
)

func Ctx(c echo.Context, seconds int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), time.Duration(seconds)*time.Second)
}

func NullStringToStrPtr(n null.String) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func StrPtrToNullString(s *string) null.String {
	if s == nil {
		return null.String{}
	}
	return null.StringFrom(*s)
}
