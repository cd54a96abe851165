package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/pkg/email"
)

// FakeMailer records every message it is asked to send.
type FakeMailer struct {
	mu   sync.Mutex
	Err  error
	sent []*email.Message
}

func (m *FakeMailer) Send(msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *FakeMailer) Sent() []*email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*email.Message(nil), m.sent...)
}

// FakeStorage keeps uploaded objects in memory and serves them from a fixed CDN host.
type FakeStorage struct {
	mu        sync.Mutex
	UploadErr error
	// FailAfter makes the upload numbered FailAfter+1 fail; zero disables it.
	FailAfter int
	uploads   int
	Objects   map[string][]byte
	Deleted   []string
}

const fakeCDN = "https://cdn.test/"

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: map[string][]byte{}}
}

func (s *FakeStorage) UploadFile(objectKey string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	if s.FailAfter > 0 && s.uploads >= s.FailAfter {
		return "", errors.New("storage unavailable")
	}
	s.uploads++
	s.Objects[objectKey] = data
	return fakeCDN + objectKey, nil
}

func (s *FakeStorage) Delete(objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Objects[objectKey]; !ok {
		return fmt.Errorf("no such object %q", objectKey)
	}
	delete(s.Objects, objectKey)
	s.Deleted = append(s.Deleted, objectKey)
	return nil
}

// ExtractObjectKey returns "" for URLs outside the fake CDN host.
func (s *FakeStorage) ExtractObjectKey(url string) string {
	if !strings.HasPrefix(url, fakeCDN) {
		return ""
	}
	return strings.TrimPrefix(url, fakeCDN)
}

func (s *FakeStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.Objects))
	for k := range s.Objects {
		keys = append(keys, k)
	}
	return keys
}

// RecordingNotifier captures notifier calls synchronously.
type RecordingNotifier struct {
	mu            sync.Mutex
	Registered    []*model.User
	Submitted     []*model.Patent
	Enquiries     []*model.Interaction
	Subscriptions []*model.Subscription
}

func (n *RecordingNotifier) UserRegistered(_ context.Context, user *model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Registered = append(n.Registered, user)
}

func (n *RecordingNotifier) PatentSubmitted(_ context.Context, patent *model.Patent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Submitted = append(n.Submitted, patent)
}

func (n *RecordingNotifier) EnquiryCreated(_ context.Context, rec *model.Interaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Enquiries = append(n.Enquiries, rec)
}

func (n *RecordingNotifier) SubscriptionCreated(_ context.Context, sub *model.Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Subscriptions = append(n.Subscriptions, sub)
}
