package auth

import apikeydomain "github.com/amirasaad/walletd/pkg/domain/apikey"

// Operation names the core actions that require a permission check.
type Operation string

const (
	OpStartDeposit     Operation = "wallet.start_deposit"
	OpTransfer         Operation = "wallet.transfer"
	OpReadBalance      Operation = "wallet.read_balance"
	OpReadTransactions Operation = "wallet.read_transactions"
	OpReadDeposit      Operation = "wallet.read_deposit"
)

// requiredPermission is the explicit operation-to-permission table; there is
// no annotation metadata to consult at runtime.
var requiredPermission = map[Operation]apikeydomain.Permission{
	OpStartDeposit:     apikeydomain.PermissionDeposit,
	OpTransfer:         apikeydomain.PermissionTransfer,
	OpReadBalance:      apikeydomain.PermissionRead,
	OpReadTransactions: apikeydomain.PermissionRead,
	OpReadDeposit:      apikeydomain.PermissionRead,
}

// Allowed reports whether the principal may perform the operation. Unknown
// operations are denied.
func Allowed(op Operation, p *Principal) bool {
	if p == nil {
		return false
	}
	required, ok := requiredPermission[op]
	if !ok {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == required {
			return true
		}
	}
	return false
}
