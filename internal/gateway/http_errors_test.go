package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	checkoutapp "github.com/Koushik0914/ecospha-organics/internal/checkout/app"
	orderapp "github.com/Koushik0914/ecospha-organics/internal/order/app"
)

func TestHTTPStatusFromGRPC(t *testing.T) {
	t.Run("InvalidArgument -> 400", func(t *testing.T) {
		err := status.Error(codes.InvalidArgument, "bad")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusBadRequest || gotCode != "INVALID_ARGUMENT" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("NotFound -> 404", func(t *testing.T) {
		err := status.Error(codes.NotFound, "missing")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusNotFound || gotCode != "NOT_FOUND" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unauthenticated -> 401", func(t *testing.T) {
		err := status.Error(codes.Unauthenticated, "who are you")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusUnauthorized || gotCode != "UNAUTHENTICATED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("FailedPrecondition -> 409", func(t *testing.T) {
		err := status.Error(codes.FailedPrecondition, "not yet")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusConflict || gotCode != "FAILED_PRECONDITION" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("Unavailable -> 503", func(t *testing.T) {
		err := status.Error(codes.Unavailable, "down")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusServiceUnavailable || gotCode != "UNAVAILABLE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("non-grpc error -> 500", func(t *testing.T) {
		err := errors.New("boom")
		gotStatus, gotCode, _ := httpStatusFromGRPC(err)
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}

func TestStatusFromError(t *testing.T) {
	t.Run("missing product -> 404", func(t *testing.T) {
		err := fmt.Errorf("get product: %w", catalogapp.ErrNotFound)
		gotStatus, _, _ := httpStatusFromGRPC(statusFromError(err))
		if gotStatus != http.StatusNotFound {
			t.Fatalf("got %d", gotStatus)
		}
	})

	t.Run("no identity -> 401", func(t *testing.T) {
		gotStatus, _, _ := httpStatusFromGRPC(statusFromError(orderapp.ErrNoIdentity))
		if gotStatus != http.StatusUnauthorized {
			t.Fatalf("got %d", gotStatus)
		}
	})

	t.Run("bad transition -> 409", func(t *testing.T) {
		gotStatus, _, _ := httpStatusFromGRPC(statusFromError(checkoutapp.ErrInvalidTransition))
		if gotStatus != http.StatusConflict {
			t.Fatalf("got %d", gotStatus)
		}
	})

	t.Run("empty cart -> 409", func(t *testing.T) {
		gotStatus, _, _ := httpStatusFromGRPC(statusFromError(orderapp.ErrEmptyCart))
		if gotStatus != http.StatusConflict {
			t.Fatalf("got %d", gotStatus)
		}
	})

	t.Run("unknown error -> 500", func(t *testing.T) {
		gotStatus, gotCode, _ := httpStatusFromGRPC(statusFromError(errors.New("backend exploded")))
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}
