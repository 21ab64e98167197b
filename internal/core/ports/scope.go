package ports

import "pharmadelivery/internal/core/domain/model/kernel"

// Scope restricts repository reads to one account unless Unscoped is set.
type Scope struct {
	AccountID kernel.UUID
	Unscoped  bool
}

// AccountScope limits reads to accountID.
func AccountScope(accountID kernel.UUID) Scope {
	return Scope{AccountID: accountID}
}

// HyperAdmin disables account filtering.
func HyperAdmin() Scope {
	return Scope{Unscoped: true}
}

// Validate requires an account id unless the scope is unscoped.
// Returns kernel.ErrUUIDIsNotConstructed for an account scope without account.
func (s Scope) Validate() error {
	if s.Unscoped {
		return nil
	}
	return s.AccountID.Validate()
}
