package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

func TestRenderTutorDecision(t *testing.T) {
	tests := []struct {
		status      models.ProfileStatus
		wantSubject string
		wantLink    string
	}{
		{models.StatusApproved, "Your Tutor Profile Has Been Approved 🎉", "https://app.example/dashboard"},
		{models.StatusRejected, "Your Tutor Profile Application Status", "https://app.example/support"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			e, err := RenderTutorDecision(tt.status, "ann@example.com", "Ann <script>", "https://app.example")
			if err != nil {
				t.Fatalf("RenderTutorDecision: %v", err)
			}
			if e.To != "ann@example.com" || e.Subject != tt.wantSubject {
				t.Fatalf("email = %+v", e)
			}
			if !strings.Contains(e.HTML, tt.wantLink) {
				t.Errorf("html missing link %q:\n%s", tt.wantLink, e.HTML)
			}
			if !strings.Contains(e.HTML, "Hello, Ann &lt;script&gt;!") {
				t.Errorf("name must be escaped:\n%s", e.HTML)
			}
		})
	}

	if _, err := RenderTutorDecision(models.StatusPending, "a@b.c", "A", ""); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("pending err = %v, want ErrNoTemplate", err)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("SkillBridge", "noreply@example.com", Email{
		To:      "ann@example.com",
		Subject: "Your Tutor Profile Has Been Approved 🎉",
		HTML:    "<p>hi</p>",
	}))

	if !strings.HasPrefix(msg, "From: SkillBridge <noreply@example.com>\r\nTo: ann@example.com\r\n") {
		t.Fatalf("unexpected headers:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("non-ascii subject must be encoded:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>") {
		t.Errorf("body not separated from headers:\n%s", msg)
	}
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	fail map[string]error
	done chan struct{}
}

func (m *fakeMailer) Send(ctx context.Context, e Email) error {
	defer func() { m.done <- struct{}{} }()
	if err := m.fail[e.To]; err != nil {
		return err
	}
	m.mu.Lock()
	m.sent = append(m.sent, e)
	m.mu.Unlock()
	return nil
}

func TestWorkerKeepsGoingAfterFailure(t *testing.T) {
	q := NewMemoryQueue(4)
	m := &fakeMailer{fail: map[string]error{"bad@example.com": errors.New("550 mailbox unavailable")}, done: make(chan struct{}, 4)}
	w := NewWorker(q, m, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for _, to := range []string{"bad@example.com", "good@example.com"} {
		if err := q.Publish(ctx, Email{To: to, Subject: "s", HTML: "h"}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not process the queue")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) != 1 || m.sent[0].To != "good@example.com" {
		t.Fatalf("sent = %+v", m.sent)
	}
}

func TestMemoryQueueClosed(t *testing.T) {
	q := NewMemoryQueue(1)
	_ = q.Close()
	if err := q.Publish(context.Background(), Email{}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
	if err := q.Consume(context.Background(), func(context.Context, Email) error { return nil }); err != nil {
		t.Fatalf("Consume on closed queue = %v", err)
	}
}

type fakePusher struct {
	mu     sync.Mutex
	events map[uuid.UUID][]interface{}
}

func (p *fakePusher) SendToUser(userID uuid.UUID, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[uuid.UUID][]interface{}{}
	}
	p.events[userID] = append(p.events[userID], data)
}

func TestNotifierTutorDecision(t *testing.T) {
	q := NewMemoryQueue(2)
	pusher := &fakePusher{}
	n := NewNotifier(q, pusher, "https://app.example", zap.NewNop())

	userID := uuid.New()
	n.TutorDecision(&models.TutorProfile{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     models.StatusApproved,
		IsVerified: true,
		User:       &models.User{ID: userID, Name: "Ann", Email: "ann@example.com"},
	})

	select {
	case e := <-q.ch:
		if e.To != "ann@example.com" || !strings.Contains(e.HTML, "/dashboard") {
			t.Fatalf("queued email = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no email queued")
	}

	pusher.mu.Lock()
	events := pusher.events[userID]
	pusher.mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("realtime events = %d, want 1", len(events))
	}
	if ev, ok := events[0].(StatusEvent); !ok || ev.Type != "tutor_status_changed" || ev.Status != models.StatusApproved {
		t.Fatalf("event = %+v", events[0])
	}
}

func TestNotifierSkipsPendingEmail(t *testing.T) {
	q := NewMemoryQueue(1)
	pusher := &fakePusher{}
	n := NewNotifier(q, pusher, "", zap.NewNop())

	userID := uuid.New()
	n.TutorDecision(&models.TutorProfile{
		UserID: userID,
		Status: models.StatusPending,
		User:   &models.User{ID: userID, Name: "Ann", Email: "ann@example.com"},
	})

	select {
	case e := <-q.ch:
		t.Fatalf("unexpected email %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
	if len(pusher.events[userID]) != 1 {
		t.Fatal("status event is still pushed for pending")
	}
}
