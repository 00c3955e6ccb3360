package gateway

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartapp "github.com/Koushik0914/ecospha-organics/internal/cart/app"
	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	checkoutapp "github.com/Koushik0914/ecospha-organics/internal/checkout/app"
	orderapp "github.com/Koushik0914/ecospha-organics/internal/order/app"
	testimonialapp "github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
)

// statusFromError translates app-layer sentinels into the gRPC status
// vocabulary the HTTP layer speaks.
func statusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, testimonialapp.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, testimonialapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, orderapp.ErrNoIdentity):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, checkoutapp.ErrInvalidTransition),
		errors.Is(err, orderapp.ErrEmptyCart),
		errors.Is(err, orderapp.ErrPaymentMethodDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, cartapp.ErrNoSavedCart):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func httpStatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", st.Message()
	case codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	default:
		return http.StatusInternalServerError, "INTERNAL", st.Message()
	}
}
