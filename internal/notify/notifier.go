package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// Pusher delivers a realtime event to a user's open sessions.
type Pusher interface {
	SendToUser(userID uuid.UUID, data interface{})
}

type StatusEvent struct {
	Type           string               `json:"type"`
	TutorProfileID uuid.UUID            `json:"tutorProfileId"`
	Status         models.ProfileStatus `json:"status"`
	IsVerified     bool                 `json:"isVerified"`
	At             time.Time            `json:"at"`
}

// Notifier fans an approval decision out to the mail queue and the realtime
// channel. It never blocks the caller on delivery.
type Notifier struct {
	queue       Queue
	pusher      Pusher
	frontendURL string
	log         *zap.Logger
	timeout     time.Duration
}

func NewNotifier(queue Queue, pusher Pusher, frontendURL string, log *zap.Logger) *Notifier {
	return &Notifier{
		queue:       queue,
		pusher:      pusher,
		frontendURL: frontendURL,
		log:         log,
		timeout:     5 * time.Second,
	}
}

func (n *Notifier) TutorDecision(p *models.TutorProfile) {
	if p == nil || p.User == nil {
		n.log.Warn("tutor decision without user, skipping notification")
		return
	}

	if n.pusher != nil {
		n.pusher.SendToUser(p.UserID, StatusEvent{
			Type:           "tutor_status_changed",
			TutorProfileID: p.ID,
			Status:         p.Status,
			IsVerified:     p.IsVerified,
			At:             time.Now().UTC(),
		})
	}

	email, err := RenderTutorDecision(p.Status, p.User.Email, p.User.Name, n.frontendURL)
	if errors.Is(err, ErrNoTemplate) {
		return
	}
	if err != nil {
		n.log.Error("render tutor decision email", zap.String("tutorProfileId", p.ID.String()), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.queue.Publish(ctx, email); err != nil {
			n.log.Error("enqueue tutor decision email",
				zap.String("tutorProfileId", p.ID.String()),
				zap.String("to", email.To),
				zap.Error(err))
			return
		}
		n.log.Info("tutor decision email queued",
			zap.String("tutorProfileId", p.ID.String()),
			zap.String("status", string(p.Status)))
	}()
}
