package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/pkg/email"
	"github.com/squirrelip/squirrel_server/internal/pkg/queue"
)

var (
	ErrInvalidEmailAddress = errors.New("Invalid email address")
	ErrInvalidTemplate     = errors.New("Invalid template name")
)

const (
	DeliverySent   = "sent"
	DeliveryQueued = "queued"
)

// Notifier is told about committed writes that warrant mail. Implementations
// must not block the caller and must not report delivery failures.
type Notifier interface {
	UserRegistered(ctx context.Context, user *model.User)
	PatentSubmitted(ctx context.Context, patent *model.Patent)
	EnquiryCreated(ctx context.Context, rec *model.Interaction)
	SubscriptionCreated(ctx context.Context, sub *model.Subscription)
}

// MailSender is satisfied by *email.Service.
type MailSender interface {
	Send(msg *email.Message) error
}

// MailQueue is satisfied by *queue.Queue.
type MailQueue interface {
	Push(ctx context.Context, job *queue.MailJob) error
}

type NotificationService struct {
	sender     MailSender
	queue      MailQueue
	maintainer string
	timeout    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewNotificationService sends through the queue when the mode is "queue" and
// a queue is given, otherwise straight through sender.
func NewNotificationService(cfg *config.NotifyConfig, sender MailSender, q MailQueue, logger *zap.Logger) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &NotificationService{
		sender:     sender,
		maintainer: cfg.MaintainerEmail,
		timeout:    timeout,
		logger:     logger,
	}
	if cfg.Mode == config.NotifyModeQueue && q != nil {
		s.queue = q
	}
	return s
}

// SendTemplate renders and delivers one templated mail before returning.
func (s *NotificationService) SendTemplate(ctx context.Context, req *dto.SendEmailRequest) (string, error) {
	msg, err := email.Render(req.TemplateName, req.To, req.TemplateData)
	switch {
	case errors.Is(err, email.ErrInvalidAddress):
		return "", ErrInvalidEmailAddress
	case errors.Is(err, email.ErrUnknownTemplate):
		return "", ErrInvalidTemplate
	case err != nil:
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.deliver(ctx, "template:"+req.TemplateName, msg); err != nil {
		return "", err
	}
	if s.queue != nil {
		return DeliveryQueued, nil
	}
	return DeliverySent, nil
}

func (s *NotificationService) UserRegistered(ctx context.Context, user *model.User) {
	s.dispatch(ctx, "welcome",
		s.templated("welcome", user.Email, map[string]string{"userName": user.FirstName}),
	)
}

func (s *NotificationService) PatentSubmitted(ctx context.Context, patent *model.Patent) {
	s.dispatch(ctx, "patent_submission",
		s.templated("patentSubmission", patent.Email, map[string]string{
			"title":           patent.Title,
			"referenceNumber": patent.PatentNumber,
			"submissionDate":  patent.ListedAt.Format("02 Jan 2006"),
		}),
	)
}

// EnquiryCreated confirms to the enquirer and alerts the maintainer.
func (s *NotificationService) EnquiryCreated(ctx context.Context, rec *model.Interaction) {
	s.dispatch(ctx, "enquiry",
		s.templated("enquiryConfirmation", rec.From.Email, map[string]string{
			"userName":     rec.From.FirstName,
			"patentTitle":  rec.PatentDetails.Title,
			"patentNumber": rec.PatentDetails.PatentNumber,
		}),
		s.maintainerNotice("New enquiry: "+rec.PatentDetails.Title, [][2]string{
			{"Patent", rec.PatentDetails.Title},
			{"Patent number", rec.PatentDetails.PatentNumber},
			{"Application number", rec.PatentDetails.ApplicationNumber},
			{"Enquirer", rec.From.FirstName + " " + rec.From.LastName},
			{"Enquirer email", rec.From.Email},
			{"Enquirer mobile", rec.From.Mobile},
			{"Owner", rec.To.FirstName + " " + rec.To.LastName},
			{"Owner email", rec.To.Email},
			{"Owner mobile", rec.To.Mobile},
		}),
	)
}

// SubscriptionCreated confirms to the subscriber and alerts the maintainer.
func (s *NotificationService) SubscriptionCreated(ctx context.Context, sub *model.Subscription) {
	s.dispatch(ctx, "subscription",
		s.templated("subscriptionConfirmation", sub.Email, map[string]string{"userName": sub.FirstName}),
		s.maintainerNotice("New subscription request", [][2]string{
			{"Name", sub.FirstName + " " + sub.LastName},
			{"Organisation", sub.OrgName},
			{"Email", sub.Email},
			{"Mobile", sub.Mobile},
			{"Message", sub.Message},
		}),
	)
}

// Wait blocks until every in-flight notification has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) templated(name, to string, data map[string]string) *email.Message {
	msg, err := email.Render(name, to, data)
	if err != nil {
		s.logger.Warn("skip notification", zap.String("template", name), zap.String("to", to), zap.Error(err))
		return nil
	}
	return msg
}

func (s *NotificationService) maintainerNotice(subject string, rows [][2]string) *email.Message {
	if s.maintainer == "" {
		return nil
	}

	var b strings.Builder
	b.WriteString("<h3>" + html.EscapeString(subject) + "</h3>\n<table>\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>\n",
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	b.WriteString("</table>\n")

	msg, err := email.Custom(s.maintainer, subject, b.String())
	if err != nil {
		s.logger.Warn("skip maintainer notice", zap.String("to", s.maintainer), zap.Error(err))
		return nil
	}
	return msg
}

// dispatch delivers msgs off the request path. The caller's deadline and
// cancellation are dropped; each batch gets its own timeout.
func (s *NotificationService) dispatch(ctx context.Context, event string, msgs ...*email.Message) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("notification panic", zap.String("event", event), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		for _, msg := range msgs {
			if msg == nil {
				continue
			}
			if err := s.deliver(ctx, event, msg); err != nil {
				s.logger.Warn("notification delivery failed",
					zap.String("event", event),
					zap.String("to", msg.To),
					zap.Error(err))
				continue
			}
			s.logger.Info("notification dispatched", zap.String("event", event), zap.String("to", msg.To))
		}
	}()
}

func (s *NotificationService) deliver(ctx context.Context, event string, msg *email.Message) error {
	if s.queue != nil {
		return s.queue.Push(ctx, &queue.MailJob{
			ID:      uuid.NewString(),
			Event:   event,
			To:      msg.To,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		})
	}

	if s.sender == nil {
		return email.ErrNotConfigured
	}
	done := make(chan error, 1)
	go func() {
		done <- s.sender.Send(msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
