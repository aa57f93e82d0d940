// Package account defines the roles under which delivery operations execute.
// Roles are resolved per call from the external identity collaborator and are
// never cached beyond a single operation.
package account

// Role classifies the actor behind an operation.
//
// Invalid (0) is deliberately the zero value: an unknown or absent account
// resolves to Invalid, and every role-gated operation rejects it as
// unauthenticated before doing anything else.
type Role int

const (
	// Invalid marks unknown or absent accounts.
	Invalid Role = iota

	// Client places orders and records incidents, but never writes statuses.
	Client

	// Courier picks up and delivers orders.
	Courier

	// Vendor is the restaurant side: accepts, rejects and prepares orders.
	Vendor

	// Admin bypasses role-permission and chronology checks.
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		Invalid: "INVALID",
		Client:  "CLIENT",
		Courier: "COURIER",
		Vendor:  "VENDOR",
		Admin:   "ADMIN",
	}
}

// RoleFromString parses the wire form of a role. Unrecognized text maps to
// Invalid, mirroring how the identity collaborator reports unknown accounts.
func RoleFromString(s string) Role {
	for role, str := range getRoleStrings() {
		if str == s {
			return role
		}
	}
	return Invalid
}

// String returns the wire form of the role ("CLIENT", "COURIER", ...).
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "INVALID"
}

// IsValid reports whether the role identifies an authenticated account.
func (r Role) IsValid() bool {
	_, ok := getRoleStrings()[r]
	return ok && r != Invalid
}
