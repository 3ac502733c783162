package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stellar/go/keypair"

	"github.com/stellarsig/msig/internal/custodian"
	"github.com/stellarsig/msig/internal/domain"
	"github.com/stellarsig/msig/internal/ports"
)

// Coordinator is the per-session state machine driver. It owns key setup,
// co-signer registration, proposal and quorum tracking, and transaction
// execution, serializing all mutating commands per session.
type Coordinator struct {
	sessions   ports.SessionRepository
	secrets    ports.SecretStore
	ledger     ports.LedgerGateway
	registrar  *Registrar
	proposer   *Proposer
	clock      ports.Clock
	locks      *sessionLocks
	passphrase string
	log        *slog.Logger
}

func NewCoordinator(sessions ports.SessionRepository, secrets ports.SecretStore, ledger ports.LedgerGateway, passphrase string, clock ports.Clock, log *slog.Logger) *Coordinator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &Coordinator{
		sessions:   sessions,
		secrets:    secrets,
		ledger:     ledger,
		registrar:  NewRegistrar(ledger, passphrase),
		proposer:   NewProposer(ledger),
		clock:      clock,
		locks:      newSessionLocks(),
		passphrase: passphrase,
		log:        log,
	}
}

// StartSession creates the session for a chat if it does not exist yet.
// Starting an existing session is a no-op returning its current status.
func (c *Coordinator) StartSession(ctx context.Context, id domain.SessionID) (SessionStatus, error) {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err == nil {
		return statusFromSession(session), nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return SessionStatus{}, fmt.Errorf("get session: %w", err)
	}

	session = domain.NewSession(id, c.clock.Now())
	if err := c.sessions.Save(ctx, session); err != nil {
		return SessionStatus{}, fmt.Errorf("save session: %w", err)
	}

	c.log.Info("session started", "session", id)
	return statusFromSession(session), nil
}

// GenerateOwnerKey creates the owner keypair, funds its ledger account and
// promotes the session to Ready. Fails without state change if the session
// already has an owner; replacing one requires an explicit reset.
func (c *Coordinator) GenerateOwnerKey(ctx context.Context, id domain.SessionID, member domain.MemberID) (KeyResult, error) {
	kp, err := custodian.Generate()
	if err != nil {
		return KeyResult{}, fmt.Errorf("generate owner keypair: %w", err)
	}

	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return c.initOwner(ctx, id, member, kp)
}

// ImportOwnerKey is GenerateOwnerKey with caller-supplied seed material.
func (c *Coordinator) ImportOwnerKey(ctx context.Context, id domain.SessionID, member domain.MemberID, seed string) (KeyResult, error) {
	kp, err := custodian.Import(seed)
	if err != nil {
		return KeyResult{}, err
	}

	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return c.initOwner(ctx, id, member, kp)
}

// GenerateCoSignerKey creates a keypair for an additional member, funds it,
// and registers it as a co-signer on the owner account. A member that
// already joined is rejected without any ledger call.
func (c *Coordinator) GenerateCoSignerKey(ctx context.Context, id domain.SessionID, member domain.MemberID) (KeyResult, error) {
	kp, err := custodian.Generate()
	if err != nil {
		return KeyResult{}, fmt.Errorf("generate co-signer keypair: %w", err)
	}

	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return c.join(ctx, id, member, kp)
}

// ImportCoSignerKey is GenerateCoSignerKey with caller-supplied seed material.
func (c *Coordinator) ImportCoSignerKey(ctx context.Context, id domain.SessionID, member domain.MemberID, seed string) (KeyResult, error) {
	kp, err := custodian.Import(seed)
	if err != nil {
		return KeyResult{}, err
	}

	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	return c.join(ctx, id, member, kp)
}

// BeginImport marks that the member's next message carries their seed. Other
// members' commands interleave normally while the import is pending.
func (c *Coordinator) BeginImport(ctx context.Context, id domain.SessionID, member domain.MemberID, role domain.ImportRole) error {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.loadOrCreate(ctx, id)
	if err != nil {
		return err
	}

	if err := session.BeginImport(member, role, c.clock.Now()); err != nil {
		return err
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// CompleteImport consumes pending seed material. On invalid material the
// import stays pending so the member can simply send it again.
func (c *Coordinator) CompleteImport(ctx context.Context, id domain.SessionID, member domain.MemberID, seed string) (KeyResult, error) {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return KeyResult{}, err
	}
	if !session.AwaitingImportFrom(member) {
		return KeyResult{}, domain.ErrNoImportPending
	}
	role := session.PendingImport.Role

	kp, err := custodian.Import(seed)
	if err != nil {
		return KeyResult{}, err
	}

	session.ClearImport(c.clock.Now())
	if err := c.sessions.Save(ctx, session); err != nil {
		return KeyResult{}, fmt.Errorf("save session: %w", err)
	}

	switch role {
	case domain.ImportRoleOwner:
		return c.initOwner(ctx, id, member, kp)
	default:
		return c.join(ctx, id, member, kp)
	}
}

// AwaitingImportFrom reports whether the session waits for seed material
// from this member, so transports can route their next plain message here.
func (c *Coordinator) AwaitingImportFrom(ctx context.Context, id domain.SessionID, member domain.MemberID) bool {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return session.AwaitingImportFrom(member)
}

// RevealSecret returns the member's own seed. Transports must deliver it
// over the member's private channel, never to the group.
func (c *Coordinator) RevealSecret(ctx context.Context, id domain.SessionID, member domain.MemberID) (string, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !session.HasMember(member) {
		return "", domain.ErrNotAMember
	}

	seed, err := c.secrets.Get(ctx, secretKey(id, member))
	if err != nil {
		return "", fmt.Errorf("fetch seed: %w", err)
	}
	return seed, nil
}

func (c *Coordinator) PublicKey(ctx context.Context, id domain.SessionID, member domain.MemberID) (string, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key, ok := session.PublicKey(member)
	if !ok {
		return "", domain.ErrNotAMember
	}
	return key, nil
}

// Propose installs a payment proposal, replacing any prior unapproved one
// and resetting the approval set.
func (c *Coordinator) Propose(ctx context.Context, id domain.SessionID, member domain.MemberID, destination, amountStr string) (SessionStatus, error) {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return SessionStatus{}, err
	}

	now := c.clock.Now()
	proposal, err := domain.NewProposal(destination, amountStr, member, now)
	if err != nil {
		return SessionStatus{}, err
	}
	if err := session.SetProposal(proposal, now); err != nil {
		return SessionStatus{}, err
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return SessionStatus{}, fmt.Errorf("save session: %w", err)
	}

	c.log.Info("proposal set",
		"session", id,
		"proposal", proposal.ID,
		"destination", proposal.Destination,
		"amount", proposal.Amount)
	return statusFromSession(session), nil
}

// Approve records one member's approval. When the approval completes the
// quorum the transaction is built, signed by every approving member and
// submitted exactly once; on rejection the proposal stays pending for a
// human-driven retry.
func (c *Coordinator) Approve(ctx context.Context, id domain.SessionID, member domain.MemberID) (ApproveResult, error) {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return ApproveResult{}, err
	}

	now := c.clock.Now()
	status, err := session.Approve(member, now)
	if err != nil {
		return ApproveResult{}, err
	}

	result := ApproveResult{Quorum: status}
	if status.State == domain.QuorumMet {
		if err := session.BeginExecution(now); err != nil {
			return ApproveResult{}, err
		}
		result.Submission = c.execute(ctx, session)
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return ApproveResult{}, fmt.Errorf("save session: %w", err)
	}
	return result, nil
}

// Retry re-runs execution for a proposal whose approvals are already
// complete. The transaction is rebuilt from scratch because the previous
// envelope's validity window may have elapsed. No re-approval is needed.
func (c *Coordinator) Retry(ctx context.Context, id domain.SessionID, member domain.MemberID) (ApproveResult, error) {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return ApproveResult{}, err
	}
	if !session.HasMember(member) {
		return ApproveResult{}, domain.ErrNotAMember
	}

	if err := session.BeginExecution(c.clock.Now()); err != nil {
		return ApproveResult{}, err
	}

	result := ApproveResult{
		Quorum:     domain.QuorumStatus{State: domain.QuorumMet},
		Submission: c.execute(ctx, session),
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return ApproveResult{}, fmt.Errorf("save session: %w", err)
	}
	return result, nil
}

// Reject terminates the session. Everything but status queries fails from
// here on.
func (c *Coordinator) Reject(ctx context.Context, id domain.SessionID, member domain.MemberID) error {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !session.HasMember(member) {
		return domain.ErrNotAMember
	}

	if err := session.Reject(c.clock.Now()); err != nil {
		return err
	}

	if err := c.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	c.log.Info("session terminated", "session", id, "by", member)
	return nil
}

// Reset discards a session and its stored seeds so the chat can start over.
// Resetting a session that already holds an owner key destroys key custody,
// so it demands explicit confirmation.
func (c *Coordinator) Reset(ctx context.Context, id domain.SessionID, confirmed bool) error {
	lock := c.locks.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if session.OwnerID != "" && !confirmed {
		return domain.ErrConfirmationRequired
	}

	for _, member := range session.Members {
		if err := c.secrets.Delete(ctx, secretKey(id, member)); err != nil {
			return fmt.Errorf("delete seed for %s: %w", member, err)
		}
	}

	if err := c.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	c.log.Info("session reset", "session", id)
	return nil
}

// ListMembers returns the registered signers in join order.
func (c *Coordinator) ListMembers(ctx context.Context, id domain.SessionID) ([]MemberKey, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return statusFromSession(session).Members, nil
}

// Status returns a consistent snapshot without taking the session lock.
func (c *Coordinator) Status(ctx context.Context, id domain.SessionID) (SessionStatus, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return SessionStatus{}, err
	}
	return statusFromSession(session), nil
}

func (c *Coordinator) initOwner(ctx context.Context, id domain.SessionID, member domain.MemberID, kp custodian.Keypair) (KeyResult, error) {
	session, err := c.loadOrCreate(ctx, id)
	if err != nil {
		return KeyResult{}, err
	}
	if !session.Active {
		return KeyResult{}, domain.ErrSessionInactive
	}
	if session.OwnerID != "" {
		return KeyResult{}, domain.ErrSessionExists
	}

	if err := c.ledger.FundAccount(ctx, kp.Address); err != nil {
		return KeyResult{}, fmt.Errorf("fund owner account: %w", err)
	}

	if err := c.secrets.Put(ctx, secretKey(id, member), kp.Seed); err != nil {
		return KeyResult{}, fmt.Errorf("store owner seed: %w", err)
	}

	now := c.clock.Now()
	if err := session.SetOwner(member, kp.Address, now); err != nil {
		_ = c.secrets.Delete(ctx, secretKey(id, member))
		return KeyResult{}, err
	}
	if err := c.sessions.Save(ctx, session); err != nil {
		_ = c.secrets.Delete(ctx, secretKey(id, member))
		return KeyResult{}, fmt.Errorf("save session: %w", err)
	}

	c.log.Info("owner registered", "session", id, "member", member, "address", kp.Address)
	return KeyResult{Member: member, PublicKey: kp.Address}, nil
}

func (c *Coordinator) join(ctx context.Context, id domain.SessionID, member domain.MemberID, kp custodian.Keypair) (KeyResult, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return KeyResult{}, err
	}
	if !session.Active {
		return KeyResult{}, domain.ErrSessionInactive
	}
	if session.OwnerID == "" {
		return KeyResult{}, domain.ErrNoOwner
	}
	if session.HasMember(member) {
		return KeyResult{}, domain.ErrDuplicateMember
	}

	if err := c.ledger.FundAccount(ctx, kp.Address); err != nil {
		return KeyResult{}, fmt.Errorf("fund co-signer account: %w", err)
	}

	ownerSeed, err := c.secrets.Get(ctx, secretKey(id, session.OwnerID))
	if err != nil {
		return KeyResult{}, fmt.Errorf("fetch owner seed: %w", err)
	}

	// Membership is committed only after the ledger accepted the signer.
	if err := c.registrar.Register(ctx, ownerSeed, kp.Address, len(session.Members)+1); err != nil {
		return KeyResult{}, err
	}

	if err := c.secrets.Put(ctx, secretKey(id, member), kp.Seed); err != nil {
		return KeyResult{}, fmt.Errorf("store co-signer seed: %w", err)
	}

	now := c.clock.Now()
	if err := session.AddMember(member, kp.Address, now); err != nil {
		_ = c.secrets.Delete(ctx, secretKey(id, member))
		return KeyResult{}, err
	}
	if err := c.sessions.Save(ctx, session); err != nil {
		_ = c.secrets.Delete(ctx, secretKey(id, member))
		return KeyResult{}, fmt.Errorf("save session: %w", err)
	}

	c.log.Info("co-signer registered",
		"session", id,
		"member", member,
		"address", kp.Address,
		"signers", len(session.Members))
	return KeyResult{Member: member, PublicKey: kp.Address}, nil
}

// execute runs exactly one submission attempt for the met quorum and settles
// the session either way. It never retries: an automatic resubmission after
// a timeout could double-spend.
func (c *Coordinator) execute(ctx context.Context, session *domain.Session) *domain.SubmissionRecord {
	now := c.clock.Now()
	source := session.Keys[session.OwnerID]

	tx, err := c.proposer.BuildPayment(ctx, source, session.Proposal.Destination, session.Proposal.Amount)
	if err != nil {
		session.SettleFailure(domain.SubmissionRecord{At: now, Reason: fmt.Sprintf("build failed: %v", err)}, now)
		return session.LastSubmission
	}

	signers := make([]*keypair.Full, 0, len(session.Quorum.Required))
	for _, member := range session.Quorum.Approvers() {
		seed, err := c.secrets.Get(ctx, secretKey(session.ID, member))
		if err != nil {
			session.SettleFailure(domain.SubmissionRecord{At: now, Reason: fmt.Sprintf("seed unavailable for %s", member)}, now)
			return session.LastSubmission
		}
		kp, err := keypair.ParseFull(seed)
		if err != nil {
			session.SettleFailure(domain.SubmissionRecord{At: now, Reason: fmt.Sprintf("seed invalid for %s", member)}, now)
			return session.LastSubmission
		}
		signers = append(signers, kp)
	}

	tx, err = tx.Sign(c.passphrase, signers...)
	if err != nil {
		session.SettleFailure(domain.SubmissionRecord{At: now, Reason: fmt.Sprintf("sign failed: %v", err)}, now)
		return session.LastSubmission
	}

	envelope, err := tx.Base64()
	if err != nil {
		session.SettleFailure(domain.SubmissionRecord{At: now, Reason: fmt.Sprintf("encode failed: %v", err)}, now)
		return session.LastSubmission
	}
	hash, _ := tx.HashHex(c.passphrase)

	c.log.Info("submitting payment",
		"session", session.ID,
		"proposal", session.Proposal.ID,
		"hash", hash,
		"signatures", len(signers))

	result, err := c.ledger.Submit(ctx, envelope)
	switch {
	case errors.Is(err, domain.ErrSubmissionTimeout):
		// The most dangerous failure: the ledger may have applied it.
		session.SettleFailure(domain.SubmissionRecord{At: now, Hash: hash, Reason: err.Error(), OutcomeUnknown: true}, now)
	case err != nil:
		session.SettleFailure(domain.SubmissionRecord{At: now, Hash: hash, Reason: err.Error()}, now)
	case !result.Successful:
		session.SettleFailure(domain.SubmissionRecord{At: now, Hash: hash, Reason: result.ResultCodes}, now)
	default:
		session.SettleSuccess(domain.SubmissionRecord{At: now, Hash: result.Hash, Successful: true}, now)
	}
	return session.LastSubmission
}

func (c *Coordinator) loadOrCreate(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return domain.NewSession(id, c.clock.Now()), nil
}

func secretKey(id domain.SessionID, member domain.MemberID) string {
	return fmt.Sprintf("%s/%s", id, member)
}
