package domain

// Customer описывает клиента. Для ядра запись только читается:
// продажа требует существующего клиента, но не изменяет его.
type Customer struct {
	ID       string
	Name     string
	Email    string
	Document string
	Phone    string
	Address  string
}
