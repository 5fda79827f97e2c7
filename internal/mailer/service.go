package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fotonatura/portfolio-api/config"
	"github.com/fotonatura/portfolio-api/utils"
)

// Service email side of the portfolio: comment notifications, subscriber
// management and post campaign blasts.
type Service struct {
	client          *BrevoClient
	sender          Recipient
	adminRecipients []Recipient
	contactListID   int64
	confirmTplID    int64
	commentTplID    int64
	frontendBaseURL string
}

// NewService creates a new mailer service from configuration
func NewService(client *BrevoClient, cfg *config.Config) *Service {
	adminEmails := cfg.AdminEmails()
	admins := make([]Recipient, 0, len(adminEmails))
	for _, email := range adminEmails {
		admins = append(admins, Recipient{Email: email})
	}

	return &Service{
		client:          client,
		sender:          Recipient{Email: cfg.BrevoSenderEmail, Name: cfg.BrevoSenderName},
		adminRecipients: admins,
		contactListID:   cfg.BrevoContactListID,
		confirmTplID:    cfg.BrevoConfirmTemplateID,
		commentTplID:    cfg.BrevoCommentTemplateID,
		frontendBaseURL: strings.TrimRight(cfg.FrontendBaseURL, "/"),
	}
}

// NotifyNewComment dispatches the admin notification for a fresh comment
// in the background. Failures are logged, never surfaced; the comment is
// already persisted by the time this runs.
func (s *Service) NotifyNewComment(postTitle, commentEmail, commentContent string) {
	utils.SafeGo(func() {
		if len(s.adminRecipients) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := s.client.SendTemplateEmail(ctx, s.sender, s.adminRecipients, s.commentTplID, map[string]interface{}{
			"postTitle":      postTitle,
			"commentEmail":   commentEmail,
			"commentContent": commentContent,
		})
		if err != nil {
			log.Printf("Failed to send comment notification email: %v", err)
		}
	})
}

// Subscribe adds a contact to the subscriber list. A duplicate contact is
// reported as already subscribed, not as an error.
func (s *Service) Subscribe(ctx context.Context, email string) (alreadySubscribed bool, err error) {
	redirect := s.frontendBaseURL + "/posts"
	err = s.client.CreateContact(ctx, email, s.contactListID, s.confirmTplID, redirect)
	if err != nil {
		if errors.Is(err, ErrDuplicateContact) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// GetSubscribers lists the contacts of the subscriber list
func (s *Service) GetSubscribers(ctx context.Context) ([]Contact, error) {
	return s.client.ListContacts(ctx, s.contactListID)
}

// SendPostCampaign creates and immediately sends a campaign announcing a
// post; the embedded link points at the configured frontend.
func (s *Service) SendPostCampaign(ctx context.Context, postID uint, postTitle string) (int64, error) {
	postURL := fmt.Sprintf("%s/posts/%d", s.frontendBaseURL, postID)
	html := fmt.Sprintf(
		`<html><body><h1>%s</h1><p>A new story is online. <a href="%s">Read it here</a>.</p></body></html>`,
		postTitle, postURL,
	)

	campaignName := fmt.Sprintf("post-%d-%s", postID, time.Now().UTC().Format("20060102"))
	campaignID, err := s.client.CreateCampaign(ctx, campaignName, postTitle, s.sender, html, s.contactListID)
	if err != nil {
		return 0, fmt.Errorf("failed to create campaign: %w", err)
	}

	if err := s.client.SendCampaignNow(ctx, campaignID); err != nil {
		return 0, fmt.Errorf("failed to send campaign: %w", err)
	}

	return campaignID, nil
}
