// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"encoding/binary"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakefarm/thor"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewBatch starts collecting the records of one committed transaction.
func (db *LogDB) NewBatch(seq uint64, txID thor.Bytes32, txOrigin thor.Address, time uint64) *Batch {
	return &Batch{
		db:       db.db,
		seq:      seq,
		txID:     txID,
		txOrigin: txOrigin,
		time:     time,
	}
}

func encodeAmount(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeAmount(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func orderBy(order Order, index string) string {
	if order == DESC {
		return " ORDER BY seq DESC, " + index + " DESC"
	}
	return " ORDER BY seq ASC, " + index + " ASC"
}

func limit(opts *Options, stmt string, args []any) (string, []any) {
	if opts == nil {
		return stmt, args
	}
	return stmt + " LIMIT ?, ?", append(args, opts.Offset, opts.Limit)
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	stmt := "SELECT seq, eventIndex, txID, txOrigin, op, pool, owner, amount, reward, time FROM event WHERE 1"
	var args []any
	if filter == nil {
		filter = &EventFilter{}
	}
	if filter.Pool != nil {
		stmt += " AND pool = ?"
		args = append(args, filter.Pool.Bytes())
	}
	if filter.Owner != nil {
		stmt += " AND owner = ?"
		args = append(args, filter.Owner.Bytes())
	}
	if filter.Op != "" {
		stmt += " AND op = ?"
		args = append(args, filter.Op)
	}
	stmt += orderBy(filter.Order, "eventIndex")
	stmt, args = limit(filter.Options, stmt, args)

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev                                  Event
			txID, origin, pool, owner, amt, rwd []byte
		)
		if err := rows.Scan(&ev.Seq, &ev.Index, &txID, &origin, &ev.Op, &pool, &owner, &amt, &rwd, &ev.Time); err != nil {
			return nil, err
		}
		ev.TxID = thor.BytesToBytes32(txID)
		ev.TxOrigin = thor.BytesToAddress(origin)
		ev.Pool = thor.BytesToAddress(pool)
		ev.Owner = thor.BytesToAddress(owner)
		ev.Amount = decodeAmount(amt)
		ev.Reward = decodeAmount(rwd)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	stmt := "SELECT seq, transferIndex, txID, txOrigin, mint, sender, recipient, amount, time FROM transfer WHERE 1"
	var args []any
	if filter == nil {
		filter = &TransferFilter{}
	}
	if filter.TxID != nil {
		stmt += " AND txID = ?"
		args = append(args, filter.TxID.Bytes())
	}
	if filter.Mint != nil {
		stmt += " AND mint = ?"
		args = append(args, filter.Mint.Bytes())
	}
	if filter.Account != nil {
		stmt += " AND (sender = ? OR recipient = ?)"
		args = append(args, filter.Account.Bytes(), filter.Account.Bytes())
	}
	stmt += orderBy(filter.Order, "transferIndex")
	stmt, args = limit(filter.Options, stmt, args)

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		var (
			tr                                    Transfer
			txID, origin, mint, sender, rcpt, amt []byte
		)
		if err := rows.Scan(&tr.Seq, &tr.Index, &txID, &origin, &mint, &sender, &rcpt, &amt, &tr.Time); err != nil {
			return nil, err
		}
		tr.TxID = thor.BytesToBytes32(txID)
		tr.TxOrigin = thor.BytesToAddress(origin)
		tr.Mint = thor.BytesToAddress(mint)
		tr.Sender = thor.BytesToAddress(sender)
		tr.Recipient = thor.BytesToAddress(rcpt)
		tr.Amount = decodeAmount(amt)
		transfers = append(transfers, &tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// Count returns the number of indexed events and transfers.
func (db *LogDB) Count(ctx context.Context) (events, transfers uint64, err error) {
	if err = db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&events); err != nil {
		return
	}
	err = db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transfer").Scan(&transfers)
	return
}

// Batch holds the records of one transaction until Commit.
type Batch struct {
	db        *sql.DB
	seq       uint64
	txID      thor.Bytes32
	txOrigin  thor.Address
	time      uint64
	events    []*Event
	transfers []*Transfer
}

// AddEvent appends a farm event of the transaction.
func (b *Batch) AddEvent(op string, pool, owner thor.Address, amount, reward uint64) *Batch {
	b.events = append(b.events, &Event{
		Seq:      b.seq,
		Index:    uint32(len(b.events)),
		TxID:     b.txID,
		TxOrigin: b.txOrigin,
		Op:       op,
		Pool:     pool,
		Owner:    owner,
		Amount:   amount,
		Reward:   reward,
		Time:     b.time,
	})
	return b
}

// AddTransfer appends a token movement of the transaction.
func (b *Batch) AddTransfer(mint, sender, recipient thor.Address, amount uint64) *Batch {
	b.transfers = append(b.transfers, &Transfer{
		Seq:       b.seq,
		Index:     uint32(len(b.transfers)),
		TxID:      b.txID,
		TxOrigin:  b.txOrigin,
		Mint:      mint,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Time:      b.time,
	})
	return b
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes all collected records in one sql transaction.
func (b *Batch) Commit() error {
	if len(b.events) == 0 && len(b.transfers) == 0 {
		return nil
	}
	return b.execInTx(func(tx *sql.Tx) error {
		for _, ev := range b.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(seq, eventIndex, txID, txOrigin, op, pool, owner, amount, reward, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				ev.Seq,
				ev.Index,
				ev.TxID.Bytes(),
				ev.TxOrigin.Bytes(),
				ev.Op,
				ev.Pool.Bytes(),
				ev.Owner.Bytes(),
				encodeAmount(ev.Amount),
				encodeAmount(ev.Reward),
				ev.Time,
			); err != nil {
				return err
			}
		}
		for _, tr := range b.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(seq, transferIndex, txID, txOrigin, mint, sender, recipient, amount, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				tr.Seq,
				tr.Index,
				tr.TxID.Bytes(),
				tr.TxOrigin.Bytes(),
				tr.Mint.Bytes(),
				tr.Sender.Bytes(),
				tr.Recipient.Bytes(),
				encodeAmount(tr.Amount),
				tr.Time,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
