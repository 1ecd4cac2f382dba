// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/xode-dao/xode-staking/metrics"
	"github.com/xode-dao/xode-staking/staking/reverts"
)

var (
	metricDispatches     = metrics.LazyLoadCounterVec("dispatches_total", []string{"call", "result"})
	metricMaintenance    = metrics.LazyLoadCounterVec("maintenance_passes_total", []string{"kind", "result"})
	metricDeclaredWeight = metrics.LazyLoadHistogram("declared_weight", metrics.BucketWeight)
	metricCandidates     = metrics.LazyLoadGauge("candidates")
	metricStatuses       = metrics.LazyLoadGaugeVec("candidates_by_status", []string{"status"})
	metricTransitions    = metrics.LazyLoadCounterVec("status_transitions_total", []string{"from", "to"})
	metricSessions       = metrics.LazyLoadCounterVec("sessions_total", []string{"result"})
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case reverts.IsRevertErr(err):
		return "revert"
	default:
		return "error"
	}
}
