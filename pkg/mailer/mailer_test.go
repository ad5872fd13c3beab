package mailer

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/dcastano/veloshop-backend/pkg/config"
)

func TestSendHTMLEmailSkipsWhenUnconfigured(t *testing.T) {
	called := false
	m := New(config.SMTPConfig{}, nil)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	if err := m.SendHTMLEmail(context.Background(), "user@example.com", "hi", "<p>hi</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("expected no SMTP call without configuration")
	}
}

func TestSendHTMLEmailBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	m := New(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: "587",
		From: "shop@example.com",
	}, nil)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := m.SendHTMLEmail(context.Background(), "user@example.com", "Order received", "<p>thanks</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %s", gotAddr)
	}
	if gotFrom != "shop@example.com" || len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Fatalf("unexpected envelope from=%s to=%v", gotFrom, gotTo)
	}
	body := string(gotMsg)
	if !strings.Contains(body, "Subject: Order received") {
		t.Fatalf("missing subject header in %q", body)
	}
	if !strings.Contains(body, "<p>thanks</p>") {
		t.Fatal("missing html body")
	}
}
