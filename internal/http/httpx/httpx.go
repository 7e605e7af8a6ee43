// Package httpx holds the request decoding, response encoding and error mapping shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shankh/internal/lock"
)

var ErrValidation = errors.New("validation failed")

// Postgres error codes surfaced to clients.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var validate = newValidator()

// newValidator lets numeric tags such as gt=0 apply to decimal fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.InexactFloat64()
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}

			return d.Decimal.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})

	return v
}

// Decode reads a JSON body into dst and validates its `validate` tags.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", ErrValidation, verrs[0].Field(), verrs[0].Tag())
		}

		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	return nil
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the status matching err. notFound lists the sentinels that mean 404 for this handler.
func Error(w http.ResponseWriter, err error, notFound ...error) {
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			http.Error(w, nf.Error(), http.StatusNotFound)
			return
		}
	}

	if errors.Is(err, ErrValidation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, lock.ErrBusy) {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "resource is busy, retry shortly", http.StatusServiceUnavailable)

		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			http.Error(w, "duplicate value: "+pgErr.ConstraintName, http.StatusConflict)
			return
		case pgForeignKeyViolation:
			http.Error(w, "referenced record does not exist", http.StatusBadRequest)
			return
		case pgCheckViolation:
			http.Error(w, "value out of range: "+pgErr.ConstraintName, http.StatusBadRequest)
			return
		}
	}

	slog.Error("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// ID parses a positive integer path parameter.
func ID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrValidation, name)
	}

	return id, nil
}

// QueryID parses an optional positive integer query parameter.
func QueryID(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: invalid %s", ErrValidation, name)
	}

	return &id, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", ErrValidation, name)
	}

	return &t, nil
}
