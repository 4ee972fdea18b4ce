package domain

// Статусная машина продажи: pending → processing → shipped → delivered,
// cancelled достижим из любого нетерминального статуса, но только через
// операцию cancel. SetStatus намеренно разрешает произвольные переназначения
// между нетерминальными статусами — это зафиксированный контракт бэк-офиса,
// а не упущение.

// ValidateTransition проверяет легальность перехода для общей операции
// смены статуса.
func ValidateTransition(current, next SaleStatus) error {
	if !next.Valid() {
		return ErrStatusInvalid
	}
	if current == SaleStatusCancelled {
		return ErrStatusTerminal
	}
	if next == SaleStatusCancelled {
		return ErrCancelViaSetStatus
	}
	return nil
}

// CanCancel сообщает, допускает ли текущий статус отмену продажи.
func CanCancel(current SaleStatus) bool {
	return current != SaleStatusCancelled
}

// IsTerminal сообщает, является ли статус терминальным.
func IsTerminal(status SaleStatus) bool {
	return status == SaleStatusCancelled
}
