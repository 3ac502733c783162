package application

import (
	"time"

	"github.com/stellarsig/msig/internal/domain"
)

// MemberKey pairs a member with their disclosed public key.
type MemberKey struct {
	Member    domain.MemberID
	PublicKey string
	Owner     bool
}

type ProposalStatus struct {
	Destination string
	Amount      string
	CreatedBy   domain.MemberID
	CreatedAt   time.Time
}

// SessionStatus is a read-only snapshot safe to hand to any transport.
type SessionStatus struct {
	ID             domain.SessionID
	Active         bool
	State          domain.SessionState
	Owner          domain.MemberID
	Members        []MemberKey
	Proposal       *ProposalStatus
	Approved       []domain.MemberID
	Remaining      int
	LastSubmission *domain.SubmissionRecord
}

// KeyResult reports a freshly generated or imported keypair's public half.
type KeyResult struct {
	Member    domain.MemberID
	PublicKey string
}

// ApproveResult carries the quorum outcome of one approval, plus the
// submission record when the approval completed the quorum and triggered
// execution.
type ApproveResult struct {
	Quorum     domain.QuorumStatus
	Submission *domain.SubmissionRecord
}

func statusFromSession(s *domain.Session) SessionStatus {
	status := SessionStatus{
		ID:             s.ID,
		Active:         s.Active,
		State:          s.State,
		Owner:          s.OwnerID,
		LastSubmission: s.LastSubmission,
	}

	status.Members = make([]MemberKey, 0, len(s.Members))
	for _, member := range s.Members {
		status.Members = append(status.Members, MemberKey{
			Member:    member,
			PublicKey: s.Keys[member],
			Owner:     member == s.OwnerID,
		})
	}

	if s.Proposal != nil {
		status.Proposal = &ProposalStatus{
			Destination: s.Proposal.Destination,
			Amount:      s.Proposal.Amount,
			CreatedBy:   s.Proposal.CreatedBy,
			CreatedAt:   s.Proposal.CreatedAt,
		}
	}
	if s.Quorum != nil {
		status.Approved = s.Quorum.Approvers()
		status.Remaining = s.Quorum.Remaining()
	}

	return status
}
