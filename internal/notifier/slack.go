package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/jobhunter/internal/model"
)

var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts new listings to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between consecutive messages
}

// NewSlackNotifier returns a notifier that posts each listing to Slack.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends each listing as a separate Block Kit message. It returns an
// error only if every message fails; individual failures are logged.
func (s *SlackNotifier) Notify(listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	failures := 0
	for i, l := range listings {
		if i > 0 {
			time.Sleep(s.pause)
		}
		if err := s.sendMessage(l); err != nil {
			s.logger.Error("slack notification failed", "url", l.URL, "title", l.Title, "error", err)
			failures++
		}
	}

	if failures == len(listings) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(listings)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(l model.Listing) error {
	body, err := json.Marshal(buildPayload(l))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Debug("slack message sent", "url", l.URL, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Debug("slack message sent", "url", l.URL)
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	retryAfter := model.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	if retryAfter <= 0 {
		retryAfter = time.Second
	}
	return resp.StatusCode, retryAfter, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample listing to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	l := model.NewListing("test", "https://remoteok.com/remote-jobs", "Integration check", time.Now())
	l.Title = "Test Notification: Integration Verified"
	l.Location = "Everywhere"
	l.SalaryMin, l.SalaryMax = model.Float64Ptr(100000), model.Float64Ptr(150000)
	return n.Notify([]model.Listing{l})
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func buildPayload(l model.Listing) slackPayload {
	title := l.Title
	if title == "" {
		title = l.URL
	}

	return slackPayload{Blocks: []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Source:*\n" + l.Source},
				{Type: "mrkdwn", Text: "*Location:*\n" + orNotSpecified(l.Location)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Published:*\n" + l.PublishedAt.UTC().Format(time.RFC1123)},
				{Type: "mrkdwn", Text: "*Salary:*\n" + l.FormatSalary()},
			},
		},
		{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Listing"},
					URL:   l.URL,
					Style: "primary",
				},
			},
		},
		{Type: "divider"},
	}}
}
