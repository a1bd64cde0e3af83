package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/instagram"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
	"github.com/solsticedigital/backoffice/pkg/mailer"
)

type instagramClient interface {
	Publish(ctx context.Context, params instagram.MediaParams) (string, error)
}

type linkedinClient interface {
	CreateShare(ctx context.Context, creds linkedin.Credentials, params linkedin.ShareParams) (string, error)
}

type linkedinCredentialsSource interface {
	LinkedInCredentials(ctx context.Context) (linkedin.Credentials, error)
}

type newsletterSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type newsletterRecipientsSource interface {
	NewsletterRecipients(ctx context.Context) ([]string, error)
}

// InstagramFeedAdapter posts the content thumbnail as a feed image.
type InstagramFeedAdapter struct {
	client instagramClient
}

// NewInstagramFeedAdapter builds the feed adapter.
func NewInstagramFeedAdapter(client instagramClient) (*InstagramFeedAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("instagram client required")
	}
	return &InstagramFeedAdapter{client: client}, nil
}

func (a *InstagramFeedAdapter) Platform() enums.Platform { return enums.PlatformInstagramFeed }

func (a *InstagramFeedAdapter) Publish(ctx context.Context, content Content) error {
	if content.ThumbnailURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a thumbnail is required for feed posts")
	}
	_, err := a.client.Publish(ctx, instagram.MediaParams{
		Caption:  captionFor(content),
		ImageURL: content.ThumbnailURL,
	})
	return err
}

// InstagramReelsAdapter posts the content video as a reel shared to the feed.
type InstagramReelsAdapter struct {
	client instagramClient
}

// NewInstagramReelsAdapter builds the reels adapter.
func NewInstagramReelsAdapter(client instagramClient) (*InstagramReelsAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("instagram client required")
	}
	return &InstagramReelsAdapter{client: client}, nil
}

func (a *InstagramReelsAdapter) Platform() enums.Platform { return enums.PlatformInstagramReels }

func (a *InstagramReelsAdapter) Publish(ctx context.Context, content Content) error {
	if content.VideoURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a video is required for reels")
	}
	_, err := a.client.Publish(ctx, instagram.MediaParams{
		Caption:  captionFor(content),
		VideoURL: content.VideoURL,
		Reels:    true,
	})
	return err
}

// LinkedInAdapter shares the content as a UGC post. Credentials are resolved
// from settings on every publish so token rotation needs no restart.
type LinkedInAdapter struct {
	client linkedinClient
	creds  linkedinCredentialsSource
}

// NewLinkedInAdapter builds the LinkedIn adapter.
func NewLinkedInAdapter(client linkedinClient, creds linkedinCredentialsSource) (*LinkedInAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("linkedin client required")
	}
	if creds == nil {
		return nil, fmt.Errorf("linkedin credentials source required")
	}
	return &LinkedInAdapter{client: client, creds: creds}, nil
}

func (a *LinkedInAdapter) Platform() enums.Platform { return enums.PlatformLinkedIn }

func (a *LinkedInAdapter) Publish(ctx context.Context, content Content) error {
	credentials, err := a.creds.LinkedInCredentials(ctx)
	if err != nil {
		return err
	}
	_, err = a.client.CreateShare(ctx, credentials, linkedin.ShareParams{
		Text:    captionFor(content),
		LinkURL: content.VideoURL,
	})
	return err
}

// NewsletterAdapter mails the content announcement to the stored recipient
// list.
type NewsletterAdapter struct {
	sender     newsletterSender
	recipients newsletterRecipientsSource
}

// NewNewsletterAdapter builds the newsletter adapter.
func NewNewsletterAdapter(sender newsletterSender, recipients newsletterRecipientsSource) (*NewsletterAdapter, error) {
	if sender == nil {
		return nil, fmt.Errorf("newsletter sender required")
	}
	if recipients == nil {
		return nil, fmt.Errorf("newsletter recipients source required")
	}
	return &NewsletterAdapter{sender: sender, recipients: recipients}, nil
}

func (a *NewsletterAdapter) Platform() enums.Platform { return enums.PlatformNewsletter }

func (a *NewsletterAdapter) Publish(ctx context.Context, content Content) error {
	to, err := a.recipients.NewsletterRecipients(ctx)
	if err != nil {
		return err
	}
	return a.sender.Send(ctx, mailer.Message{
		To:       to,
		Subject:  content.Title,
		HTMLBody: newsletterBody(content),
	})
}

func captionFor(content Content) string {
	if content.Description != "" {
		return content.Description
	}
	return content.Title
}

func newsletterBody(content Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", content.Title)
	if content.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", content.Description)
	}
	if content.VideoURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Watch the video</a></p>`, content.VideoURL)
	}
	return b.String()
}
