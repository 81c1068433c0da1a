package vaultconst

// ProgramName is the name Vault program is registered with.
const ProgramName = "vault"

// Vault methods.
const (
	CreateMethod = "create"
	OptInMethod  = "opt_in"
	ClaimMethod  = "claim"
	DeleteMethod = "delete"
)

// Global state keys.
const (
	AssetCountKey = "assets"
	MasterKey     = "master"
	CreatorKey    = "creator"
	ReceiverKey   = "receiver"
)

// Custody box layout: 8-byte BE asset ID -> 20-byte funder address.
const (
	CustodyNameLen  = 8
	CustodyValueLen = 20
)

// Notifications.
const (
	AssetOptedInEvent = "AssetOptedIn"
	AssetClaimedEvent = "AssetClaimed"
)
