package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andreimorozov/sales/internal/domain"
)

// writeDomainError переводит закрытую таксономию ошибок домена в HTTP-коды:
// отсутствие сущности — 404, нарушение правил запроса — 400, остальное — 500.
func writeDomainError(ctx *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrPriceNegative),
		errors.Is(err, domain.ErrPaymentMethodInvalid),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrSaleAlreadyCancelled),
		errors.Is(err, domain.ErrStatusInvalid),
		errors.Is(err, domain.ErrStatusTerminal),
		errors.Is(err, domain.ErrCancelViaSetStatus),
		errors.Is(err, domain.ErrInvalidRange):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
