package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarsig/msig/internal/application"
	"github.com/stellarsig/msig/internal/domain"
)

func TestRenderEmptySession(t *testing.T) {
	output, err := Render(application.SessionStatus{
		ID:     "chat-1",
		Active: true,
		State:  domain.StateUninitialized,
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Stellar Multisig Session")
	assert.Contains(t, output, "session: chat-1")
	assert.Contains(t, output, "state: uninitialized")
	assert.Contains(t, output, "No signers registered yet.")
}

func TestRenderPendingProposal(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render(application.SessionStatus{
		ID:     "chat-1",
		Active: true,
		State:  domain.StateProposalPending,
		Owner:  "alice",
		Members: []application.MemberKey{
			{Member: "alice", PublicKey: "GAAA", Owner: true},
			{Member: "bob", PublicKey: "GBBB"},
		},
		Proposal: &application.ProposalStatus{
			Destination: "GDEST",
			Amount:      "12.5",
			CreatedBy:   "alice",
			CreatedAt:   now.Add(-90 * time.Second),
		},
		Approved:  []domain.MemberID{"alice"},
		Remaining: 1,
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "signers: 2")
	assert.Contains(t, output, "alice (original signer)")
	assert.Contains(t, output, "proposal: 12.5 XLM to GDEST")
	assert.Contains(t, output, "1/2 approvals")
	assert.Contains(t, output, "proposed by alice, 1m30s ago")
	assert.Contains(t, output, "[")
	assert.Contains(t, output, "]")
}

func TestRenderSubmissionOutcomes(t *testing.T) {
	base := application.SessionStatus{ID: "chat-1", Active: true, State: domain.StateSettled}

	settled := base
	settled.LastSubmission = &domain.SubmissionRecord{Successful: true, Hash: "cafe"}
	output, err := Render(settled, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "submitted: cafe")

	unknown := base
	unknown.State = domain.StateProposalPending
	unknown.LastSubmission = &domain.SubmissionRecord{OutcomeUnknown: true}
	output, err = Render(unknown, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "outcome unknown")

	failed := base
	failed.State = domain.StateProposalPending
	failed.LastSubmission = &domain.SubmissionRecord{Reason: "tx_failed, op_underfunded"}
	output, err = Render(failed, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "last submission failed: tx_failed, op_underfunded")
}

func TestRenderTerminatedSession(t *testing.T) {
	output, err := Render(application.SessionStatus{
		ID:    "chat-1",
		State: domain.StateAborted,
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "session terminated")
}
