package subscribe

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/mail"
	"github.com/inkpress/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskPostPublished is the queue task type for publish announcements.
const TaskPostPublished = "post.published"

type postPublishedPayload struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
}

// Notifier emails active subscribers when a post goes live. Delivery
// runs through the task queue so publishing never waits on SMTP.
type Notifier struct {
	db      *gorm.DB
	sender  *mail.Sender
	queue   *taskqueue.Queue
	siteURL string
	log     *zap.Logger
}

func NewNotifier(db *gorm.DB, sender *mail.Sender, queue *taskqueue.Queue, siteURL string, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Notifier{db: db, sender: sender, queue: queue, siteURL: siteURL, log: log}
	queue.Register(TaskPostPublished, n.handlePostPublished)
	return n
}

// AnnouncePost enqueues a publish announcement. Best-effort: an enqueue
// failure is logged, never surfaced to the publish request.
func (n *Notifier) AnnouncePost(ctx context.Context, title, slug, excerpt string) {
	if !n.sender.Enabled() {
		return
	}
	_, err := n.queue.Enqueue(ctx, TaskPostPublished, postPublishedPayload{
		Title:   title,
		Slug:    slug,
		Excerpt: excerpt,
	})
	if err != nil {
		n.log.Warn("announce enqueue failed", zap.String("slug", slug), zap.Error(err))
	}
}

func (n *Notifier) handlePostPublished(ctx context.Context, payload json.RawMessage) error {
	var p postPublishedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	var emails []string
	if err := n.db.WithContext(ctx).Model(&models.SubscriberModel{}).
		Where("active = ?", true).
		Pluck("email", &emails).Error; err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}

	html, err := mail.RenderNewPost(mail.NewPostData{
		Title:   p.Title,
		Excerpt: p.Excerpt,
		URL:     n.postURL(p.Slug),
	})
	if err != nil {
		return err
	}

	return n.sender.Send(mail.Message{
		To:      emails,
		Subject: "New post: " + p.Title,
		HTML:    html,
	})
}

func (n *Notifier) postURL(slug string) string {
	base := strings.TrimRight(n.siteURL, "/")
	if base == "" {
		base = "http://localhost:8057"
	}
	return base + "/api/posts/" + slug
}
