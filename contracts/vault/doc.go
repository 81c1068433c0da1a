/*
Package vault contains implementation of the Vault contract.

Vault is an escrow application created by the Master contract for a single
receiver. It takes custody of fungible assets sent to the receiver and keeps
them until the receiver claims them. The account that pays for the asset
opt-in (funder) gets the exact balance floor cost back on claim. The last
claim closes the vault account: the remaining balance goes back to the
vault creator and the vault must be deleted through the Master in the same
group.

# Contract notifications

AssetOptedIn notification. This notification is produced when the vault takes
custody of a new asset.

	AssetOptedIn
	  - name: asset
	    type: Integer
	  - name: funder
	    type: Hash160

AssetClaimed notification. This notification is produced when the receiver
claims the asset.

	AssetClaimed
	  - name: asset
	    type: Integer
	  - name: receiver
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package vault

/*
Contract storage model.

# Summary
Global values:
 - 'assets' -> int
   number of custodied assets
 - 'master' -> int
   ID of the Master application that created the vault
 - 'creator' -> 20-byte address
   account that paid for the vault creation
 - 'receiver' -> 20-byte address
   beneficiary of the custodied assets

Boxes:
 - <asset> -> 20-byte address
   funder of the asset opt-in, asset ID is an 8-byte BE integer

# Balance floor
Vault account keeps the base floor paid by the Master on creation. Each
custody record adds an asset holding and a 28-byte box to the floor, so
the opt-in costs AssetMinBalance + BoxFlatMinBalance + 28 * BoxByteMinBalance.
*/
