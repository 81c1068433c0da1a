/*
Package ledger implements a deterministic ledger executing atomic groups of
transactions on top of the neo-go storage layer.

The ledger keeps native balances of accounts, fungible assets, applications
with typed global values and application boxes. Every open account has a
balance floor growing with the resources it holds. At the end of each group
every modified account must either keep its floor or be fully closed,
otherwise the whole group is rejected.

Applications are instances of registered programs. A program handler gets an
Env providing access to the application state and allowing it to issue inner
transactions on behalf of the application account.

# Groups
Group is executed in a separate unit of work (storage.MemCachedStore over the
ledger state). Successful group is persisted as a whole and increments the
ledger round, failed one is discarded. Simulate executes the group in the
same way but never persists it.

Application may require the next top-level transaction of the group to
satisfy some condition by registering a Companion. The group is rejected if
the requirement is not met or the group ends earlier.

# Storage model
Single-byte prefixes are used for the stored items:
  - 0x01<address> -> account record
    balance and counters of held resources, removed when everything is zero
  - 0x02<address><asset> -> 8-byte BE integer
    asset holding of the account
  - 0x03<asset> -> asset record
  - 0x04<app> -> application record
    program name, creator, declared and used schema
  - 0x05<app><name> -> stackitem.Serialize(Integer|ByteArray)
    global value of the application
  - 0x06<app><name> -> []byte
    application box
  - 0x07 -> 8-byte BE integer
    last allocated asset or application ID
  - 0x08 -> 8-byte BE integer
    ledger round
*/
package ledger
