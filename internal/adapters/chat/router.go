// Package chat turns inbound chat messages into coordinator calls and
// coordinator results into replies. It is transport neutral; bridges such
// as the websocket handler feed it events and deliver its replies.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stellarsig/msig/internal/application"
	"github.com/stellarsig/msig/internal/domain"
)

// Event is one inbound message from a member of a chat session.
type Event struct {
	SessionID domain.SessionID
	MemberID  domain.MemberID
	Text      string
}

// Reply is one outbound message. Private replies carry secret material and
// must reach only the member who issued the event, never the group.
type Reply struct {
	Text    string
	Private bool
}

type Router struct {
	coord *application.Coordinator
	log   *slog.Logger
}

func NewRouter(coord *application.Coordinator, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{coord: coord, log: log}
}

// Handle processes one event. It never returns an error; every failure is
// rendered as a reply so the conversation can continue.
func (r *Router) Handle(ctx context.Context, ev Event) []Reply {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}

	if !strings.HasPrefix(text, "/") {
		return r.plainText(ctx, ev, text)
	}

	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "/start":
		return r.start(ctx, ev)
	case "/gen_keys":
		return r.genOwnerKeys(ctx, ev)
	case "/import_keys":
		return r.beginImport(ctx, ev, domain.ImportRoleOwner)
	case "/gen_keys_co_signer":
		return r.genCoSignerKeys(ctx, ev)
	case "/import_keys_co_signer":
		return r.beginImport(ctx, ev, domain.ImportRoleCoSigner)
	case "/private_key":
		return r.privateKey(ctx, ev)
	case "/public_key":
		return r.publicKey(ctx, ev)
	case "/verify":
		return r.verify(ctx, ev)
	case "/send":
		return r.send(ctx, ev, args)
	case "/yes":
		return r.approve(ctx, ev)
	case "/retry":
		return r.retry(ctx, ev)
	case "/no":
		return r.reject(ctx, ev)
	case "/reset":
		return r.reset(ctx, ev, args)
	case "/status":
		return r.status(ctx, ev)
	case "/help":
		return []Reply{{Text: menu()}}
	default:
		return []Reply{{Text: "Unknown command.\n\n" + menu()}}
	}
}

// AwaitingSecret reports whether the member's next plain message will be
// treated as the secret seed for a pending key import. Bridges must keep
// that message off the group; it is for this router alone.
func (r *Router) AwaitingSecret(ctx context.Context, sessionID domain.SessionID, member domain.MemberID) bool {
	return r.coord.AwaitingImportFrom(ctx, sessionID, member)
}

// plainText routes a non-command message. The only meaning plain text has
// is seed material for a pending import by the sending member.
func (r *Router) plainText(ctx context.Context, ev Event, text string) []Reply {
	if !r.coord.AwaitingImportFrom(ctx, ev.SessionID, ev.MemberID) {
		return nil
	}

	key, err := r.coord.CompleteImport(ctx, ev.SessionID, ev.MemberID, text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKey) {
			return []Reply{{Text: "That does not look like a valid secret seed. Send it again.", Private: true}}
		}
		return r.failure(err)
	}

	return []Reply{
		{Text: "Your keys have been added.", Private: true},
		{Text: fmt.Sprintf("Signer added: %s\n\n%s", key.PublicKey, menu())},
	}
}

func (r *Router) start(ctx context.Context, ev Event) []Reply {
	if _, err := r.coord.StartSession(ctx, ev.SessionID); err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Welcome! You have been registered.\n\n" + menu()}}
}

func (r *Router) genOwnerKeys(ctx context.Context, ev Event) []Reply {
	key, err := r.coord.GenerateOwnerKey(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: fmt.Sprintf("Original signer added: %s\n\n%s", key.PublicKey, menu())}}
}

func (r *Router) genCoSignerKeys(ctx context.Context, ev Event) []Reply {
	key, err := r.coord.GenerateCoSignerKey(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: fmt.Sprintf("Co-signer added: %s\n\n%s", key.PublicKey, menu())}}
}

func (r *Router) beginImport(ctx context.Context, ev Event, role domain.ImportRole) []Reply {
	if err := r.coord.BeginImport(ctx, ev.SessionID, ev.MemberID, role); err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Send your secret seed as your next message.", Private: true}}
}

func (r *Router) privateKey(ctx context.Context, ev Event) []Reply {
	seed, err := r.coord.RevealSecret(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Your private key: " + seed, Private: true}}
}

func (r *Router) publicKey(ctx context.Context, ev Event) []Reply {
	key, err := r.coord.PublicKey(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Your public key: " + key}}
}

func (r *Router) verify(ctx context.Context, ev Event) []Reply {
	members, err := r.coord.ListMembers(ctx, ev.SessionID)
	if err != nil {
		return r.failure(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Registered signers: %d\n", len(members))
	for _, member := range members {
		role := "co-signer"
		if member.Owner {
			role = "original signer"
		}
		fmt.Fprintf(&b, "%s (%s): %s\n", member.Member, role, member.PublicKey)
	}
	return []Reply{{Text: strings.TrimRight(b.String(), "\n")}}
}

func (r *Router) send(ctx context.Context, ev Event, args []string) []Reply {
	if len(args) != 2 {
		return []Reply{{Text: "Usage: /send <destination_public_key> <amount>"}}
	}

	status, err := r.coord.Propose(ctx, ev.SessionID, ev.MemberID, args[0], args[1])
	if err != nil {
		return r.failure(err)
	}

	return []Reply{{Text: fmt.Sprintf(
		"Transaction set to send %s XLM to %s.\nUse /yes to confirm and sign the transaction. %d approval(s) needed.",
		status.Proposal.Amount, status.Proposal.Destination, status.Remaining)}}
}

func (r *Router) approve(ctx context.Context, ev Event) []Reply {
	result, err := r.coord.Approve(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return r.quorumReply(ev, result)
}

func (r *Router) retry(ctx context.Context, ev Event) []Reply {
	result, err := r.coord.Retry(ctx, ev.SessionID, ev.MemberID)
	if err != nil {
		return r.failure(err)
	}
	return r.quorumReply(ev, result)
}

func (r *Router) quorumReply(ev Event, result application.ApproveResult) []Reply {
	switch result.Quorum.State {
	case domain.QuorumAlreadyApproved:
		return []Reply{{Text: fmt.Sprintf("You already signed. Waiting for %d more signature(s).", result.Quorum.Remaining)}}
	case domain.QuorumPending:
		return []Reply{{Text: fmt.Sprintf("Signature recorded. Waiting for %d more signature(s).", result.Quorum.Remaining)}}
	}

	sub := result.Submission
	switch {
	case sub == nil:
		return []Reply{{Text: "Nothing to submit."}}
	case sub.Successful:
		return []Reply{{Text: fmt.Sprintf("Transaction submitted successfully!\nHash: %s", sub.Hash)}}
	case sub.OutcomeUnknown:
		return []Reply{{Text: "Submission timed out; the transaction may or may not have been applied. " +
			"Check the source account before using /retry."}}
	default:
		return []Reply{{Text: fmt.Sprintf("Transaction submission failed: %s\nApprovals are kept; use /retry to submit again.", sub.Reason)}}
	}
}

func (r *Router) reject(ctx context.Context, ev Event) []Reply {
	if err := r.coord.Reject(ctx, ev.SessionID, ev.MemberID); err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Process terminated due to a /no response."}}
}

func (r *Router) reset(ctx context.Context, ev Event, args []string) []Reply {
	confirmed := len(args) > 0 && strings.EqualFold(args[0], "confirm")

	err := r.coord.Reset(ctx, ev.SessionID, confirmed)
	if errors.Is(err, domain.ErrConfirmationRequired) {
		return []Reply{{Text: "This session holds keys. Use /reset confirm to discard it and start over."}}
	}
	if err != nil {
		return r.failure(err)
	}
	return []Reply{{Text: "Session reset. Use /start to begin a new one."}}
}

func (r *Router) status(ctx context.Context, ev Event) []Reply {
	status, err := r.coord.Status(ctx, ev.SessionID)
	if err != nil {
		return r.failure(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\nSigners: %d\n", status.State, len(status.Members))
	if status.Proposal != nil {
		fmt.Fprintf(&b, "Proposal: %s XLM to %s (%d approval(s) outstanding)\n",
			status.Proposal.Amount, status.Proposal.Destination, status.Remaining)
	}
	if status.LastSubmission != nil {
		switch {
		case status.LastSubmission.Successful:
			fmt.Fprintf(&b, "Last submission: success, hash %s\n", status.LastSubmission.Hash)
		case status.LastSubmission.OutcomeUnknown:
			b.WriteString("Last submission: outcome unknown, check the account before retrying\n")
		default:
			fmt.Fprintf(&b, "Last submission: failed (%s)\n", status.LastSubmission.Reason)
		}
	}
	return []Reply{{Text: strings.TrimRight(b.String(), "\n")}}
}

// failure renders an error for the chat. The wording separates "nothing
// happened" failures from the unknown-outcome case, which quorumReply
// handles separately.
func (r *Router) failure(err error) []Reply {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return []Reply{{Text: "No active process. Please start with /start."}}
	case errors.Is(err, domain.ErrSessionInactive):
		return []Reply{{Text: "This session was terminated. Use /reset to start over."}}
	case errors.Is(err, domain.ErrSessionExists):
		return []Reply{{Text: "An original signer is already registered. Use /reset confirm to start over."}}
	case errors.Is(err, domain.ErrNoOwner):
		return []Reply{{Text: "No original signer yet. Use /gen_keys or /import_keys first."}}
	case errors.Is(err, domain.ErrDuplicateMember):
		return []Reply{{Text: "You already joined this session."}}
	case errors.Is(err, domain.ErrNotAMember):
		return []Reply{{Text: "You are not a signer in this session."}}
	case errors.Is(err, domain.ErrNoProposal):
		return []Reply{{Text: "No transaction details found. Please use /send to set the transaction details."}}
	case errors.Is(err, domain.ErrNoImportPending):
		return []Reply{{Text: "No key import is pending for you."}}
	case errors.Is(err, domain.ErrInvalidKey):
		return []Reply{{Text: "That does not look like a valid secret seed."}}
	case errors.Is(err, domain.ErrInvalidAmount):
		return []Reply{{Text: "Invalid amount. Use a positive number like 10 or 2.5."}}
	case errors.Is(err, domain.ErrInvalidDestination):
		return []Reply{{Text: "Invalid destination. Use a public key starting with G."}}
	case errors.Is(err, domain.ErrSubmissionTimeout):
		return []Reply{{Text: "The network timed out; the outcome is unknown. Check the account before retrying."}}
	}

	r.log.Error("command failed", "error", err)

	switch domain.Classify(err) {
	case domain.ClassLedger:
		var ledgerErr *domain.LedgerError
		if errors.As(err, &ledgerErr) {
			return []Reply{{Text: fmt.Sprintf("The ledger rejected the operation (%s). Nothing was changed.", ledgerErr.ResultCodes)}}
		}
		return []Reply{{Text: "The ledger rejected the operation. Nothing was changed."}}
	case domain.ClassTransport:
		return []Reply{{Text: "The network is unavailable. Nothing was changed; try again later."}}
	default:
		return []Reply{{Text: "Something went wrong. Nothing was changed."}}
	}
}

func menu() string {
	return strings.Join([]string{
		"Commands:",
		"/start - start a session in this chat",
		"/gen_keys - generate keys for the original signer",
		"/import_keys - use your own keys for the original signer",
		"/gen_keys_co_signer - generate keys and join as co-signer",
		"/import_keys_co_signer - use your own keys as co-signer",
		"/send <destination> <amount> - propose a payment",
		"/yes - approve the pending payment",
		"/no - reject and terminate the session",
		"/retry - resubmit after a failed attempt",
		"/verify - list registered signers",
		"/status - show session state",
		"/private_key - receive your secret seed privately",
		"/public_key - show your public key",
		"/reset - discard the session",
	}, "\n")
}
