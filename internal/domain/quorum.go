package domain

// QuorumState describes the outcome of recording one approval.
type QuorumState string

const (
	QuorumPending         QuorumState = "pending"
	QuorumAlreadyApproved QuorumState = "already_approved"
	QuorumMet             QuorumState = "met"
)

type QuorumStatus struct {
	State     QuorumState
	Remaining int
}

// Quorum tracks which of the required signers have approved the current
// proposal. Required is the membership snapshot taken when the proposal was
// set; quorum is met only when the approval set equals the required set. A
// new proposal gets a fresh Quorum, so late approvals always land on the
// current proposal, never a stale one.
type Quorum struct {
	Required  []MemberID
	Approvals map[MemberID]struct{}
}

func NewQuorum(required []MemberID) *Quorum {
	snapshot := make([]MemberID, len(required))
	copy(snapshot, required)

	return &Quorum{
		Required:  snapshot,
		Approvals: make(map[MemberID]struct{}, len(snapshot)),
	}
}

func (q *Quorum) Approve(member MemberID) (QuorumStatus, error) {
	if !q.isRequired(member) {
		return QuorumStatus{}, ErrNotAMember
	}
	if _, ok := q.Approvals[member]; ok {
		return QuorumStatus{State: QuorumAlreadyApproved, Remaining: q.Remaining()}, nil
	}

	q.Approvals[member] = struct{}{}

	if q.Met() {
		return QuorumStatus{State: QuorumMet}, nil
	}
	return QuorumStatus{State: QuorumPending, Remaining: q.Remaining()}, nil
}

// Met reports set equality between approvals and the required snapshot.
// Approvals only ever contains required members, so comparing sizes suffices.
func (q *Quorum) Met() bool {
	return len(q.Approvals) == len(q.Required)
}

func (q *Quorum) Remaining() int {
	return len(q.Required) - len(q.Approvals)
}

func (q *Quorum) Approved(member MemberID) bool {
	_, ok := q.Approvals[member]
	return ok
}

// Approvers returns the approving members in required-signer order.
func (q *Quorum) Approvers() []MemberID {
	approvers := make([]MemberID, 0, len(q.Approvals))
	for _, member := range q.Required {
		if _, ok := q.Approvals[member]; ok {
			approvers = append(approvers, member)
		}
	}
	return approvers
}

func (q *Quorum) isRequired(member MemberID) bool {
	for _, required := range q.Required {
		if required == member {
			return true
		}
	}
	return false
}

func (q *Quorum) clone() *Quorum {
	if q == nil {
		return nil
	}

	required := make([]MemberID, len(q.Required))
	copy(required, q.Required)

	approvals := make(map[MemberID]struct{}, len(q.Approvals))
	for member := range q.Approvals {
		approvals[member] = struct{}{}
	}

	return &Quorum{Required: required, Approvals: approvals}
}
