// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/stakefarm/metrics"
)

var (
	metricClauses  = metrics.LazyLoadCounterVec("runtime_clauses_count", []string{"op", "status"})
	metricDuration = metrics.LazyLoadHistogramVec("runtime_clause_duration_ms", []string{"op"}, metrics.BucketHTTPReqs)
	metricSeq      = metrics.LazyLoadGauge("runtime_committed_seq")
)
