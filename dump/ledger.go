package dump

import (
	"fmt"

	"github.com/nspcc-dev/escrow-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Source is a ledger state to be dumped.
type Source interface {
	IterateApps(f func(ledger.AppInfo) bool) error
	Globals(id ledger.AppID) (map[string]stackitem.Item, error)
	IterateBoxes(id ledger.AppID, f func(name, value []byte) bool)
}

// Ledger adds all alive applications of the ledger with their globals and
// boxes to the Creator and flushes it.
func Ledger(src Source, c *Creator) error {
	var apps []ledger.AppInfo

	err := src.IterateApps(func(info ledger.AppInfo) bool {
		apps = append(apps, info)
		return true
	})
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	for i := range apps {
		gs, err := src.Globals(apps[i].ID)
		if err != nil {
			return fmt.Errorf("read globals of application %d: %w", apps[i].ID, err)
		}

		w, err := c.AddApp(AppState{Info: apps[i], Globals: gs})
		if err != nil {
			return err
		}

		src.IterateBoxes(apps[i].ID, func(name, value []byte) bool {
			err = w.Write(name, value)
			return err == nil
		})
		if err != nil {
			return fmt.Errorf("dump boxes of application %d: %w", apps[i].ID, err)
		}
	}

	return c.Flush()
}
