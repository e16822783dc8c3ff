// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the contract storage of the ledger.
//
// Every write lands in a revision stack first. A checkpoint can be reverted
// as a whole, which is how a failed call leaves no partial state behind.
// Staged changes are flushed to the kv store in a single batch.
package state
