package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuorumApprovePending(t *testing.T) {
	q := NewQuorum([]MemberID{"alice", "bob", "carol"})

	status, err := q.Approve("alice")
	require.NoError(t, err)
	assert.Equal(t, QuorumPending, status.State)
	assert.Equal(t, 2, status.Remaining)
	assert.False(t, q.Met())
}

func TestQuorumApproveMetOnSetEquality(t *testing.T) {
	q := NewQuorum([]MemberID{"alice", "bob"})

	_, err := q.Approve("bob")
	require.NoError(t, err)

	status, err := q.Approve("alice")
	require.NoError(t, err)
	assert.Equal(t, QuorumMet, status.State)
	assert.True(t, q.Met())
}

func TestQuorumApproveDuplicateIsNoOp(t *testing.T) {
	q := NewQuorum([]MemberID{"alice", "bob"})

	_, err := q.Approve("alice")
	require.NoError(t, err)

	status, err := q.Approve("alice")
	require.NoError(t, err)
	assert.Equal(t, QuorumAlreadyApproved, status.State)
	assert.Equal(t, 1, status.Remaining)
	assert.Len(t, q.Approvals, 1)
}

func TestQuorumApproveNonMemberChangesNothing(t *testing.T) {
	q := NewQuorum([]MemberID{"alice"})

	_, err := q.Approve("mallory")
	require.ErrorIs(t, err, ErrNotAMember)
	assert.Empty(t, q.Approvals)
	assert.False(t, q.Met())
}

func TestQuorumApprovalsAlwaysSubsetOfRequired(t *testing.T) {
	q := NewQuorum([]MemberID{"alice", "bob"})

	_, _ = q.Approve("alice")
	_, _ = q.Approve("mallory")
	_, _ = q.Approve("bob")
	_, _ = q.Approve("trent")

	for member := range q.Approvals {
		assert.Contains(t, q.Required, member)
	}
	assert.True(t, q.Met())
}

func TestQuorumSingleMemberMetImmediately(t *testing.T) {
	q := NewQuorum([]MemberID{"owner"})

	status, err := q.Approve("owner")
	require.NoError(t, err)
	assert.Equal(t, QuorumMet, status.State)
}

func TestQuorumApproversPreserveRequiredOrder(t *testing.T) {
	q := NewQuorum([]MemberID{"alice", "bob", "carol"})

	_, _ = q.Approve("carol")
	_, _ = q.Approve("alice")

	assert.Equal(t, []MemberID{"alice", "carol"}, q.Approvers())
}
