package ledger

import (
	"errors"
	"fmt"
)

// Params are protocol constants of the ledger.
type Params struct {
	// Floor of any open account.
	MinBalance uint64 `yaml:"MinBalance"`
	// Floor increase per asset holding.
	AssetMinBalance uint64 `yaml:"AssetMinBalance"`
	// Floor increase of the creator per created application.
	AppFlatParamsMinBalance uint64 `yaml:"AppFlatParamsMinBalance"`
	// Floor increase of the creator per declared global value.
	SchemaMinBalancePerEntry uint64 `yaml:"SchemaMinBalancePerEntry"`
	// Additional floor increase per declared integer value.
	SchemaUintMinBalance uint64 `yaml:"SchemaUintMinBalance"`
	// Additional floor increase per declared byte slice value.
	SchemaBytesMinBalance uint64 `yaml:"SchemaBytesMinBalance"`
	// Floor increase of the application account per box.
	BoxFlatMinBalance uint64 `yaml:"BoxFlatMinBalance"`
	// Floor increase of the application account per box name and value byte.
	BoxByteMinBalance uint64 `yaml:"BoxByteMinBalance"`

	MaxGroupSize         int `yaml:"MaxGroupSize"`
	MaxInnerTransactions int `yaml:"MaxInnerTransactions"`
	MaxCallDepth         int `yaml:"MaxCallDepth"`
	MaxBoxSize           int `yaml:"MaxBoxSize"`
	MaxBoxNameLen        int `yaml:"MaxBoxNameLen"`
}

// DefaultParams returns the default protocol constants.
func DefaultParams() Params {
	return Params{
		MinBalance:               100_000,
		AssetMinBalance:          100_000,
		AppFlatParamsMinBalance:  100_000,
		SchemaMinBalancePerEntry: 25_000,
		SchemaUintMinBalance:     3_500,
		SchemaBytesMinBalance:    25_000,
		BoxFlatMinBalance:        2_500,
		BoxByteMinBalance:        400,

		MaxGroupSize:         16,
		MaxInnerTransactions: 16,
		MaxCallDepth:         8,
		MaxBoxSize:           32_768,
		MaxBoxNameLen:        64,
	}
}

// Validate checks that limits are usable.
func (p Params) Validate() error {
	switch {
	case p.MinBalance == 0:
		return errors.New("zero MinBalance")
	case p.MaxGroupSize <= 0:
		return fmt.Errorf("invalid MaxGroupSize %d", p.MaxGroupSize)
	case p.MaxInnerTransactions < 0:
		return fmt.Errorf("invalid MaxInnerTransactions %d", p.MaxInnerTransactions)
	case p.MaxCallDepth <= 0:
		return fmt.Errorf("invalid MaxCallDepth %d", p.MaxCallDepth)
	case p.MaxBoxSize <= 0:
		return fmt.Errorf("invalid MaxBoxSize %d", p.MaxBoxSize)
	case p.MaxBoxNameLen <= 0:
		return fmt.Errorf("invalid MaxBoxNameLen %d", p.MaxBoxNameLen)
	}
	return nil
}

// AppMinBalance returns creator's floor increase for an application with
// the given schema.
func (p Params) AppMinBalance(s Schema) uint64 {
	return p.AppFlatParamsMinBalance +
		(p.SchemaMinBalancePerEntry+p.SchemaUintMinBalance)*s.NumUint +
		(p.SchemaMinBalancePerEntry+p.SchemaBytesMinBalance)*s.NumByteSlice
}

// BoxMinBalance returns application account's floor increase for a box.
func (p Params) BoxMinBalance(nameLen, size int) uint64 {
	return p.BoxFlatMinBalance + p.BoxByteMinBalance*uint64(nameLen+size)
}

// floor returns the balance floor of the account.
func (p Params) floor(a accountRecord) uint64 {
	return p.MinBalance +
		p.AssetMinBalance*a.Holdings +
		p.AppFlatParamsMinBalance*a.CreatedApps +
		(p.SchemaMinBalancePerEntry+p.SchemaUintMinBalance)*a.SchemaUints +
		(p.SchemaMinBalancePerEntry+p.SchemaBytesMinBalance)*a.SchemaBytes +
		p.BoxFlatMinBalance*a.Boxes +
		p.BoxByteMinBalance*a.BoxBytes
}
