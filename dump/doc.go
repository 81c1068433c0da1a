/*
Package dump provides I/O operations for ledger application dumps.

A dump is identified by ID and consists of two files:

	'<label>-<round>-apps.json': JSON array of application states
	'<label>-<round>-boxes.csv': CSV of application boxes

Dumps are written by Creator (see Ledger for dumping a whole ledger) and read
back via IterateDumps.
*/
package dump
