package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Buyers() BuyerRepository
	Items() ItemRepository
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
}
