package utils

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// TodayDate returns the current UTC calendar day as "YYYY-MM-DD".
func TodayDate() string {
	return time.Now().UTC().Format(time.DateOnly)
}

// TokenData is the subset of JWT claims the handlers care about.
// The auth middleware stores it under the "tokendata" context key.
type TokenData struct {
	Sub      string
	Username string
	IsAdmin  bool
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get("tokendata").(*TokenData)
	if !ok || data == nil {
		return nil, errors.New("no token data in request context")
	}
	return data, nil
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
