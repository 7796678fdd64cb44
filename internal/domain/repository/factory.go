package repository

// Factory describes access to the different domain repositories.
type Factory interface {
	Users() UserRepository
	Items() ItemRepository
	Withdrawals() WithdrawalRepository
	Purchases() PurchaseRepository
}
