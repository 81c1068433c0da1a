/*
Package contracts provides access to the escrow contracts programs.
*/
package contracts

import (
	"github.com/nspcc-dev/escrow-contract/contracts/master"
	"github.com/nspcc-dev/escrow-contract/contracts/vault"
	"github.com/nspcc-dev/escrow-contract/ledger"
)

var programs = []func() ledger.Program{
	master.Program,
	vault.Program,
}

// Programs returns all the escrow programs. They should be registered in the
// ledger together since Master instantiates Vault.
func Programs() []ledger.Program {
	res := make([]ledger.Program, 0, len(programs))
	for i := range programs {
		res = append(res, programs[i]())
	}
	return res
}
