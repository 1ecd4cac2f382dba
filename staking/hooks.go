// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/xode-dao/xode-staking/staking/candidate"
	"github.com/xode-dao/xode-staking/staking/maintenance"
	"github.com/xode-dao/xode-staking/staking/offline"
	"github.com/xode-dao/xode-staking/staking/session"
	"github.com/xode-dao/xode-staking/xode"
)

//
// Host hooks - never fail
//

// OnInitialize runs the maintenance of the block and returns its declared weight. A failing pass is
// rolled back and logged, the declared weight is still returned.
func (s *Staking) OnInitialize(block uint32) xode.Weight {
	checkpoint := s.state.NewCheckpoint()

	report, err := s.scheduler.Run(block)
	metricMaintenance().AddWithLabel(1, map[string]string{"kind": string(report.Kind), "result": resultLabel(err)})
	metricDeclaredWeight().Observe(int64(report.Weight)) // #nosec G115
	if err != nil {
		s.state.RevertTo(checkpoint)
		logger.Error("maintenance failed", "block", block, "kind", report.Kind, "err", err)
		return report.Weight
	}

	metricCandidates().Set(int64(report.Candidates))
	if report.Kind == maintenance.KindFull {
		logger.Debug("performed maintenance", "block", block, "candidates", report.Candidates, "next", report.Next, "weight", report.Weight)
		if report.Repaired {
			logger.Warn("candidate list repaired", "block", block)
		}
	}
	return report.Weight
}

// NewSession rotates the candidate statuses for the session and returns the new authority set in
// list order. It returns nil if the rotation failed, meaning the host keeps the current set.
func (s *Staking) NewSession(index uint32) []xode.Address {
	if err := s.session.Set(index); err != nil {
		logger.Error("failed to record session", "session", index, "err", err)
		metricSessions().AddWithLabel(1, map[string]string{"result": "error"})
		return nil
	}

	checkpoint := s.state.NewCheckpoint()
	authors, err := s.rotate(index)
	if err != nil {
		s.state.RevertTo(checkpoint)
		logger.Error("session rotation failed, keeping the current authority set", "session", index, "err", err)
		metricSessions().AddWithLabel(1, map[string]string{"result": "error"})
		return nil
	}
	metricSessions().AddWithLabel(1, map[string]string{"result": "ok"})
	return authors
}

func (s *Staking) rotate(index uint32) ([]xode.Address, error) {
	entries, err := s.candidates.Entries()
	if err != nil {
		return nil, err
	}

	markers := make(map[xode.Address]*offline.Marker)
	for _, e := range entries {
		if !e.Offline {
			continue
		}
		m, err := s.tracker.Marker(e.Account)
		if err != nil {
			return nil, err
		}
		if m != nil {
			markers[e.Account] = m
		}
	}

	res := session.Rotate(session.Input{
		Entries:       entries,
		Markers:       markers,
		Session:       index,
		Capacity:      s.config.AuthoringCapacity(),
		GraceSessions: s.config.OfflineGraceSessions,
		MinBond:       s.config.MinCandidateBond,
	})

	for _, account := range res.Unmarked {
		logger.Warn("offline author has no marker, keeping it authoring", "account", account, "session", index)
	}
	for _, tr := range res.Transitions {
		if !candidate.CanTransition(tr.From, tr.To) {
			return nil, errors.Errorf("illegal status transition %s -> %s of %s", tr.From, tr.To, tr.Account)
		}
	}

	for i, e := range entries {
		if res.Statuses[i] == e.Status && res.Listed[i] == e.Listed {
			continue
		}
		e.Status = res.Statuses[i]
		e.Listed = res.Listed[i]
		if err := s.candidates.Update(e.Account, e.Candidate); err != nil {
			return nil, err
		}
	}

	for _, tr := range res.Transitions {
		metricTransitions().AddWithLabel(1, map[string]string{"from": tr.From.String(), "to": tr.To.String()})
	}
	for _, status := range []candidate.Status{candidate.StatusOnline, candidate.StatusWaiting, candidate.StatusAuthoring, candidate.StatusQueuing} {
		metricStatuses().SetWithLabel(int64(res.Count(status)), map[string]string{"status": status.String()})
	}

	logger.Info("new session", "session", index, "authors", len(res.Authoring), "transitions", len(res.Transitions), "capacity", s.config.AuthoringCapacity())

	if res.Authoring == nil {
		return []xode.Address{}, nil
	}
	return res.Authoring, nil
}
