package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stellarsig/msig/internal/application"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(status application.SessionStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Stellar Multisig Session"),
		s.header.Render(fmt.Sprintf("session: %s  state: %s", status.ID, status.State)),
	}

	lines = append(lines, s.section.Render(renderSigners(status, s)))

	if status.Proposal != nil {
		lines = append(lines, s.section.Render(renderProposal(status, opts, s)))
	}
	if status.LastSubmission != nil {
		lines = append(lines, s.section.Render(renderSubmission(status, s)))
	}
	if !status.Active {
		lines = append(lines, s.section.Render(s.warning.Render("session terminated")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSigners(status application.SessionStatus, s styles) string {
	if len(status.Members) == 0 {
		return s.empty.Render("No signers registered yet.")
	}

	parts := []string{s.detail.Render(fmt.Sprintf("signers: %d", len(status.Members)))}
	for _, member := range status.Members {
		style := s.signer
		label := string(member.Member)
		if member.Owner {
			style = s.owner
			label += " (original signer)"
		}
		parts = append(parts, style.Render(fmt.Sprintf("  %s  %s", label, member.PublicKey)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderProposal(status application.SessionStatus, opts RenderOptions, s styles) string {
	required := len(status.Approved) + status.Remaining

	parts := []string{
		s.detail.Render(fmt.Sprintf("proposal: %s XLM to %s", status.Proposal.Amount, status.Proposal.Destination)),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			renderApprovalBar(len(status.Approved), required, 24, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d/%d approvals", len(status.Approved), required)),
		),
	}

	if !opts.Now.IsZero() && !status.Proposal.CreatedAt.IsZero() {
		age := opts.Now.Sub(status.Proposal.CreatedAt).Round(time.Second)
		parts = append(parts, s.header.Render(fmt.Sprintf("proposed by %s, %s ago", status.Proposal.CreatedBy, age)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSubmission(status application.SessionStatus, s styles) string {
	sub := status.LastSubmission
	switch {
	case sub.Successful:
		return s.success.Render(fmt.Sprintf("submitted: %s", sub.Hash))
	case sub.OutcomeUnknown:
		return s.warning.Render("last submission timed out; outcome unknown, check the account before retrying")
	default:
		return s.warning.Render(fmt.Sprintf("last submission failed: %s", sub.Reason))
	}
}

func renderApprovalBar(approved, required, width int, s styles) string {
	if width <= 0 || required <= 0 {
		return ""
	}

	fraction := float64(approved) / float64(required)
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
