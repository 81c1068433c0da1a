package masterconst

// ProgramName is the name Master program is registered with.
const ProgramName = "master"

// Master methods.
const (
	CreateMethod       = "create"
	CreateVaultMethod  = "create_vault"
	VerifyAxferMethod  = "verify_axfer"
	GetVaultIDMethod   = "get_vault_id"
	GetVaultAddrMethod = "get_vault_addr"
	DeleteVaultMethod  = "delete_vault"
)

// Registry box layout: 20-byte receiver address -> 8-byte BE vault ID.
const (
	RegistryNameLen  = 20
	RegistryValueLen = 8
)

// Notifications.
const (
	VaultCreatedEvent = "VaultCreated"
	VaultDeletedEvent = "VaultDeleted"
)
