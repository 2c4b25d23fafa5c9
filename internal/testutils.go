package internal

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
)

func BuildTestIMAPServer(t *testing.T) (*server.Server, string, *memory.Mailbox) {
	be := memory.New()
	user, err := be.Login(nil, "username", "password")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mb, err := user.GetMailbox("INBOX")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mailbox := mb.(*memory.Mailbox)
	mailbox.Messages = nil

	s := server.New(be)
	t.Cleanup(func() { _ = s.Close() })

	s.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	go func() { err = s.Serve(l) }()

	return s, l.Addr().String(), mailbox
}

// RecordedMail is one message accepted by the test SMTP server.
type RecordedMail struct {
	From string
	To   []string
	Data []byte
}

// MailRecorder collects everything the test SMTP server accepts.
type MailRecorder struct {
	mtx   sync.Mutex
	Mails []RecordedMail
}

func (r *MailRecorder) add(m RecordedMail) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.Mails = append(r.Mails, m)
}

func (r *MailRecorder) Count() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.Mails)
}

func (r *MailRecorder) Last() RecordedMail {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.Mails[len(r.Mails)-1]
}

type smtpBackend struct {
	recorder *MailRecorder
}

func (be *smtpBackend) Login(_ *smtp.ConnectionState, _, _ string) (smtp.Session, error) {
	return &smtpSession{recorder: be.recorder}, nil
}

func (be *smtpBackend) AnonymousLogin(_ *smtp.ConnectionState) (smtp.Session, error) {
	return &smtpSession{recorder: be.recorder}, nil
}

type smtpSession struct {
	recorder *MailRecorder
	from     string
	to       []string
}

func (s *smtpSession) Mail(from string, _ smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *smtpSession) Rcpt(to string) error {
	s.to = append(s.to, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	bb := new(bytes.Buffer)
	if _, err := io.Copy(bb, r); err != nil {
		return err
	}

	s.recorder.add(RecordedMail{From: s.from, To: s.to, Data: bb.Bytes()})
	return nil
}

func (s *smtpSession) Reset() {
	s.from = ""
	s.to = nil
}

func (s *smtpSession) Logout() error { return nil }

func BuildTestSMTPServer(t *testing.T) (*smtp.Server, string, *MailRecorder) {
	recorder := &MailRecorder{}

	s := smtp.NewServer(&smtpBackend{recorder: recorder})
	s.Domain = "localhost"
	s.AllowInsecureAuth = true
	t.Cleanup(func() { _ = s.Close() })

	l, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	go func() { _ = s.Serve(l) }()

	return s, l.Addr().String(), recorder
}
