/*
Package master contains implementation of the Master contract.

Master is a registry and factory of Vault applications. It creates a single
vault per receiver, keeps receiver to vault mapping and deletes vaults after
their last claim. Vault creator pays the exact balance floor cost of the
registry record and vault application and gets it back on vault deletion.

# Contract notifications

VaultCreated notification. This notification is produced when a new vault is
created for the receiver.

	VaultCreated
	  - name: receiver
	    type: Hash160
	  - name: vault
	    type: Integer

VaultDeleted notification. This notification is produced when the vault is
deleted after its last claim.

	VaultDeleted
	  - name: receiver
	    type: Hash160
	  - name: vault
	    type: Integer
*/
package master

/*
Contract storage model.

# Summary
Master has no global values.

Boxes:
 - <receiver> -> 8-byte BE integer
   ID of the receiver's vault, receiver is a 20-byte address

# Balance floor
Master account keeps the base floor paid on deployment. Each vault adds its
application parameters (created by Master) and a 28-byte registry box to the
Master floor. Creation payment additionally covers the vault base floor
which Master transfers to the new vault.
*/
