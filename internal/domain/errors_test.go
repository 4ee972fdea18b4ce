package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestInsufficientStockError_MatchesSentinel(t *testing.T) {
	err := &InsufficientStockError{ProductID: "product-1", Requested: 20, Available: 10}

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected errors.Is match with ErrInsufficientStock")
	}

	wrapped := fmt.Errorf("create sale: %w", err)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("expected wrapped error to match sentinel")
	}

	var typed *InsufficientStockError
	if !errors.As(wrapped, &typed) {
		t.Fatal("expected errors.As to recover typed error")
	}
	if typed.Requested != 20 || typed.Available != 10 {
		t.Fatalf("unexpected quantities: %+v", typed)
	}
}

func TestProductNotFoundError_MatchesSentinel(t *testing.T) {
	err := &ProductNotFoundError{ProductID: "product-9"}

	if !errors.Is(err, ErrProductNotFound) {
		t.Fatal("expected errors.Is match with ErrProductNotFound")
	}
	if err.Error() != "product product-9 not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		ErrCustomerNotFound,
		ErrSaleNotFound,
		&ProductNotFoundError{ProductID: "p"},
		fmt.Errorf("load sale: %w", ErrSaleNotFound),
	} {
		if !IsNotFound(err) {
			t.Errorf("expected IsNotFound for %v", err)
		}
	}

	if IsNotFound(ErrInsufficientStock) {
		t.Error("did not expect IsNotFound for ErrInsufficientStock")
	}
}
