package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrClassNone},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, ErrClassSchema},
		{"connection failure", &pgconn.PgError{Code: "08006"}, ErrClassConnection},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrClassData},
		{"fk violation via pq", &pq.Error{Code: "23503"}, ErrClassData},
		{"wrapped", fmt.Errorf("query: %w", &pgconn.PgError{Code: "42703"}), ErrClassSchema},
		{"plain error", errors.New("boom"), ErrClassUnknown},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Fatalf("%s: Classify = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsSchemaOrConnectionError(t *testing.T) {
	if !IsSchemaOrConnectionError(&pgconn.PgError{Code: "42P01"}) {
		t.Fatal("undefined table should be a schema error")
	}
	if IsSchemaOrConnectionError(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("integrity violations are data errors, not schema errors")
	}
	if IsSchemaOrConnectionError(nil) {
		t.Fatal("nil should not classify")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("expected gorm sentinel to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("arbitrary errors should not match")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "products_code_key", Message: `duplicate key value violates unique constraint "products_code_key"`}
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("create: %w", err), "products_code_key") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(errors.New("duplicate key value violates"), "missing_constraint") {
		t.Fatal("constraint filter should reject non-matching text")
	}
}
