package domain

import "time"

type SessionID string
type MemberID string

// SessionState is the coordinator state machine position. Settled is not a
// dead end: a settled session accepts a new proposal and behaves like Ready.
type SessionState string

const (
	StateUninitialized   SessionState = "uninitialized"
	StateForming         SessionState = "forming"
	StateReady           SessionState = "ready"
	StateProposalPending SessionState = "proposal_pending"
	StateExecuting       SessionState = "executing"
	StateSettled         SessionState = "settled"
	StateAborted         SessionState = "aborted"
)

type ImportRole string

const (
	ImportRoleOwner    ImportRole = "owner"
	ImportRoleCoSigner ImportRole = "co-signer"
)

// ImportRequest marks that the coordinator is waiting for one member to send
// secret key material as their next message. Commands from other members are
// handled normally while an import is pending.
type ImportRequest struct {
	Member      MemberID
	Role        ImportRole
	RequestedAt time.Time
}

// SubmissionRecord is the outcome of the most recent submission attempt.
// OutcomeUnknown marks the dangerous case: the submit call timed out, the
// ledger may or may not have applied the transaction, and the user must
// check account state before retrying.
type SubmissionRecord struct {
	At             time.Time
	Hash           string
	Successful     bool
	Reason         string
	OutcomeUnknown bool
}

// Session is the unit of coordination, one per chat. Secret seeds are never
// stored here; Keys maps members to public keys only.
type Session struct {
	ID             SessionID
	Active         bool
	State          SessionState
	OwnerID        MemberID
	Members        []MemberID
	Keys           map[MemberID]string
	PendingImport  *ImportRequest
	Proposal       *Proposal
	Quorum         *Quorum
	LastSubmission *SubmissionRecord
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewSession(id SessionID, now time.Time) *Session {
	return &Session{
		ID:        id,
		Active:    true,
		State:     StateUninitialized,
		Keys:      make(map[MemberID]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetOwner records the owner keypair holder as the first member. The session
// must not already have an owner; replacing an initialized session requires
// an explicit reset first.
func (s *Session) SetOwner(member MemberID, publicKey string, now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}
	if s.OwnerID != "" {
		return ErrSessionExists
	}

	s.OwnerID = member
	s.Members = []MemberID{member}
	s.Keys = map[MemberID]string{member: publicKey}
	s.State = StateReady
	s.UpdatedAt = now
	return nil
}

// AddMember registers an additional co-signer, preserving join order. A
// duplicate join is rejected without mutating anything.
func (s *Session) AddMember(member MemberID, publicKey string, now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}
	if s.OwnerID == "" {
		return ErrNoOwner
	}
	if s.HasMember(member) {
		return ErrDuplicateMember
	}

	s.Members = append(s.Members, member)
	s.Keys[member] = publicKey
	s.UpdatedAt = now
	return nil
}

func (s *Session) HasMember(member MemberID) bool {
	for _, m := range s.Members {
		if m == member {
			return true
		}
	}
	return false
}

func (s *Session) PublicKey(member MemberID) (string, bool) {
	key, ok := s.Keys[member]
	return key, ok
}

// SetProposal installs a new pending proposal, snapshotting the current
// membership as the required signer set and resetting all approvals. Any
// prior unapproved proposal is replaced.
func (s *Session) SetProposal(p *Proposal, now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}
	if s.OwnerID == "" {
		return ErrNoOwner
	}
	if !s.HasMember(p.CreatedBy) {
		return ErrNotAMember
	}

	s.Proposal = p
	s.Quorum = NewQuorum(s.Members)
	s.State = StateProposalPending
	s.UpdatedAt = now
	return nil
}

func (s *Session) Approve(member MemberID, now time.Time) (QuorumStatus, error) {
	if !s.Active {
		return QuorumStatus{}, ErrSessionInactive
	}
	if s.Proposal == nil || s.State != StateProposalPending {
		return QuorumStatus{}, ErrNoProposal
	}

	status, err := s.Quorum.Approve(member)
	if err != nil {
		return QuorumStatus{}, err
	}
	s.UpdatedAt = now
	return status, nil
}

// Reject deactivates the session. All further commands except status queries
// fail with ErrSessionInactive.
func (s *Session) Reject(now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}

	s.Active = false
	s.State = StateAborted
	s.UpdatedAt = now
	return nil
}

func (s *Session) BeginExecution(now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}
	if s.Proposal == nil || s.Quorum == nil || !s.Quorum.Met() {
		return ErrNoProposal
	}

	s.State = StateExecuting
	s.UpdatedAt = now
	return nil
}

// SettleSuccess clears the executed proposal; the session accepts a new one.
func (s *Session) SettleSuccess(record SubmissionRecord, now time.Time) {
	s.Proposal = nil
	s.Quorum = nil
	s.LastSubmission = &record
	s.State = StateSettled
	s.UpdatedAt = now
}

// SettleFailure rolls back to ProposalPending keeping the proposal and its
// approvals, so a human can inspect the failure and request a retry.
func (s *Session) SettleFailure(record SubmissionRecord, now time.Time) {
	s.LastSubmission = &record
	s.State = StateProposalPending
	s.UpdatedAt = now
}

func (s *Session) BeginImport(member MemberID, role ImportRole, now time.Time) error {
	if !s.Active {
		return ErrSessionInactive
	}
	if s.PendingImport != nil {
		return ErrImportPending
	}

	s.PendingImport = &ImportRequest{Member: member, Role: role, RequestedAt: now}
	if role == ImportRoleOwner {
		s.State = StateForming
	}
	s.UpdatedAt = now
	return nil
}

func (s *Session) ClearImport(now time.Time) {
	if s.PendingImport != nil && s.PendingImport.Role == ImportRoleOwner && s.State == StateForming {
		s.State = StateUninitialized
	}
	s.PendingImport = nil
	s.UpdatedAt = now
}

// AwaitingImportFrom reports whether the session is waiting for this member
// to send secret key material.
func (s *Session) AwaitingImportFrom(member MemberID) bool {
	return s.PendingImport != nil && s.PendingImport.Member == member
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	clone := *s

	clone.Members = make([]MemberID, len(s.Members))
	copy(clone.Members, s.Members)

	clone.Keys = make(map[MemberID]string, len(s.Keys))
	for member, key := range s.Keys {
		clone.Keys[member] = key
	}

	if s.PendingImport != nil {
		pending := *s.PendingImport
		clone.PendingImport = &pending
	}
	if s.Proposal != nil {
		proposal := *s.Proposal
		clone.Proposal = &proposal
	}
	if s.LastSubmission != nil {
		record := *s.LastSubmission
		clone.LastSubmission = &record
	}
	clone.Quorum = s.Quorum.clone()

	return &clone
}
