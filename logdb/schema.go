// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// amounts are stored as 8 byte big endian blobs, sqlite integers are signed.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	op TEXT NOT NULL,
	pool BLOB(20) NOT NULL,
	owner BLOB(20) NOT NULL,
	amount BLOB(8) NOT NULL,
	reward BLOB(8) NOT NULL,
	time INTEGER NOT NULL,
	PRIMARY KEY (seq, eventIndex)
);

CREATE INDEX IF NOT EXISTS event_i_pool ON event(pool, owner);
CREATE INDEX IF NOT EXISTS event_i_op ON event(op);
`

const transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER NOT NULL,
	transferIndex INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	mint BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(8) NOT NULL,
	time INTEGER NOT NULL,
	PRIMARY KEY (seq, transferIndex)
);

CREATE INDEX IF NOT EXISTS transfer_i_sender ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i_recipient ON transfer(recipient);
CREATE INDEX IF NOT EXISTS transfer_i_txID ON transfer(txID);
`
