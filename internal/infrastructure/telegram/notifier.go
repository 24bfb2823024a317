package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MediaMonitor/internal/domain"
	"MediaMonitor/internal/ports"
)

// Notifier sends run reports to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishReport posts a run summary message to Telegram.
func (n *Notifier) PublishReport(ctx context.Context, report domain.RunReport) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", formatReport(report))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func formatReport(r domain.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Media monitor run %s\n", r.Started.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Fetched: %d\n", r.Fetched)
	fmt.Fprintf(&b, "New mentions: %d\n", r.Appended)
	fmt.Fprintf(&b, "Duplicates skipped: %d\n", r.Duplicates)
	if r.BeforeCutoff > 0 {
		fmt.Fprintf(&b, "Before cutoff: %d\n", r.BeforeCutoff)
	}
	if r.Cleaned > 0 {
		fmt.Fprintf(&b, "Rows cleaned: %d\n", r.Cleaned)
	}
	return b.String()
}
