package ledger

import (
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Application handles calls of the program instances. Returned error aborts
// the whole transaction group.
type Application interface {
	Call(env *Env) (any, error)
}

// ApplicationFunc is an adapter allowing to use ordinary functions as
// Application.
type ApplicationFunc func(env *Env) (any, error)

// Call implements Application.
func (f ApplicationFunc) Call(env *Env) (any, error) {
	return f(env)
}

// Program describes executable code which may be instantiated by the
// creation call referencing its name.
type Program struct {
	Name    string
	Global  Schema
	Handler Application
}

// Companion is a requirement an application puts on the next top-level
// transaction of the same group. The group fails if the requirement is not
// satisfied.
type Companion interface {
	// Match checks the next transaction before it is executed. It is called
	// with nil if the group ends before.
	Match(next *Transaction) error
	// Verify checks the state after the next transaction is executed.
	Verify(r Reader) error
}

// Event is a notification produced by an application.
type Event struct {
	App  AppID
	Name string
	Args []any
}

// TxnResult is an outcome of a single applied transaction.
type TxnResult struct {
	CreatedAppID   AppID
	CreatedAssetID AssetID
	// Value returned by the application, if any.
	Return any
	Events []Event
	Inner  []TxnResult
}

// GroupResult is an outcome of an atomic group.
type GroupResult struct {
	ID uuid.UUID
	// Round the group was committed in. Zero for simulations.
	Round uint64
	Txns  []TxnResult
}

// AppInfo describes an alive application.
type AppInfo struct {
	ID      AppID
	Program string
	Creator util.Uint160
	Address util.Uint160
	Schema  Schema
}
