// Package smtp delivers the per-run status email that operators rely
// on to confirm the overnight build, or to catch a failed one before
// the dialer starts the day empty.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/domodwyer/mailyak/v3"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// defaultRetryDelay is how long to wait before the single resend
// attempt.
const defaultRetryDelay = 5 * time.Second

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	To       []string
	Subject  string
}

// Notifier sends run status emails over SMTP.
type Notifier struct {
	config     Config
	retryDelay time.Duration

	// send is swapped out in tests.
	send func(m *mailyak.MailYak) error
}

// NewNotifier creates an SMTP notifier with the given settings.
func NewNotifier(config Config) *Notifier {
	if config.Subject == "" {
		config.Subject = "Daily List Build"
	}
	return &Notifier{
		config:     config,
		retryDelay: defaultRetryDelay,
		send:       func(m *mailyak.MailYak) error { return m.Send() },
	}
}

// Notify mails the step trace and run summary. A failed run, or one
// that died before producing a report, gets an ERROR-prefixed subject
// so it stands out in the operator inbox. Delivery is retried once.
func (n *Notifier) Notify(ctx context.Context, trace domain.StepTrace, report *domain.RunReport) error {
	subject := n.subject(trace, report)
	body := renderBody(trace, report)

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", n.config.Host, n.config.Port), auth)
	mail.From(n.config.From)
	if n.config.FromName != "" {
		mail.FromName(n.config.FromName)
	}
	mail.To(n.config.To...)
	mail.Subject(subject)
	mail.Plain().Set(body)

	if err := ctx.Err(); err != nil {
		return err
	}

	err := n.send(mail)
	if err == nil {
		logger.Info("status email sent to %s", strings.Join(n.config.To, ", "))
		return nil
	}

	logger.Warn("status email failed, retrying: %v", err)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(n.retryDelay):
	}

	if err := n.send(mail); err != nil {
		return fmt.Errorf("sending status email: %w", err)
	}
	logger.Info("status email sent on retry to %s", strings.Join(n.config.To, ", "))
	return nil
}

// subject returns the configured subject, ERROR-prefixed when the run
// did not complete cleanly.
func (n *Notifier) subject(trace domain.StepTrace, report *domain.RunReport) string {
	if trace.HasFailure() || report == nil {
		return "ERROR - " + n.config.Subject
	}
	return n.config.Subject
}

// renderBody formats the step-by-step trace followed by the run
// summary, when a report exists.
func renderBody(trace domain.StepTrace, report *domain.RunReport) string {
	var b strings.Builder

	b.WriteString("Build Steps\n")
	b.WriteString("-----------\n")
	for _, s := range trace {
		fmt.Fprintf(&b, "%s: %s\n", s.Step, s.Status)
	}

	if report == nil {
		b.WriteString("\nNo run report was produced.\n")
		return b.String()
	}

	b.WriteString("\nRun Summary\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(&b, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(&b, "Started: %s\n", report.StartedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Finished: %s\n", report.FinishedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Selected: %d of %d", report.Selected, report.Target)
	if report.Shortfall > 0 {
		fmt.Fprintf(&b, " (short %d)", report.Shortfall)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Recent share: %.1f%%\n", report.RecentShare()*100)
	fmt.Fprintf(&b, "Duplicated records: %d\n", report.Duplicates)
	fmt.Fprintf(&b, "Excluded (unresolved region): %d\n", report.UnresolvedExcluded)
	fmt.Fprintf(&b, "Excluded (unweighted region): %d\n", report.UnweightedExcluded)

	if len(report.PerRegion) > 0 {
		b.WriteString("\nPer Region\n")
		b.WriteString("----------\n")
		for _, region := range report.Regions() {
			fmt.Fprintf(&b, "%s: %d\n", region, report.PerRegion[region])
		}
	}

	return b.String()
}
