package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrInvalidAddress  = errors.New("invalid email address")
	ErrUnknownTemplate = errors.New("invalid template name")
)

var (
	addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	blankLines     = regexp.MustCompile(`\n\s*\n+`)
)

// Message is a fully rendered mail. Text is the HTML with tags stripped.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type mailTemplate struct {
	subject string
	body    *template.Template
}

const layoutHead = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`
const layoutFoot = `<br/>
<p>Best regards,</p>
<p>The Squirrel IP Team</p>
</div>`

func parse(name, body string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(layoutHead + body + layoutFoot))
}

var templates = map[string]mailTemplate{
	"welcome": {
		subject: "Welcome to Squirrel IP!",
		body: parse("welcome", `
<h2>Welcome to Squirrel IP!</h2>
<p>Hello {{.userName}},</p>
<p>Thank you for joining Squirrel IP. We're excited to have you on board!</p>
<p>Start exploring our platform to manage and protect your intellectual property.</p>
`),
	},
	"passwordReset": {
		subject: "Password Reset Request",
		body: parse("passwordReset", `
<h2>Password Reset Request</h2>
<p>You requested a password reset. Click the link below to reset your password:</p>
<p><a href="{{.resetLink}}" style="color: #007bff;">Reset Password</a></p>
<p>If you didn't request this, please ignore this email.</p>
`),
	},
	"patentSubmission": {
		subject: "Patent Submission Confirmation",
		body: parse("patentSubmission", `
<h2>Patent Submission Received</h2>
<p>Your patent submission has been received:</p>
<ul>
<li>Title: {{.title}}</li>
<li>Reference Number: {{.referenceNumber}}</li>
<li>Submission Date: {{.submissionDate}}</li>
</ul>
<p>We will review your submission and get back to you soon.</p>
`),
	},
	"subscriptionConfirmation": {
		subject: "Subscription Confirmation",
		body: parse("subscriptionConfirmation", `
<h2>Registration Confirmed</h2>
<p>Thank you for submitting your request, we will get back to you shortly</p>
`),
	},
	"enquiryConfirmation": {
		subject: "Enquiry Received",
		body: parse("enquiryConfirmation", `
<h2>Enquiry Received</h2>
<p>Hello {{.userName}},</p>
<p>We have received your enquiry for the patent "{{.patentTitle}}" ({{.patentNumber}}).</p>
<p>Our team will get in touch with you shortly.</p>
`),
	},
}

// Templates returns the registered template names in sorted order.
func Templates() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Render fills a named template. Missing data keys render as empty strings.
func Render(name, to string, data map[string]string) (*Message, error) {
	if !ValidAddress(to) {
		return nil, ErrInvalidAddress
	}
	tpl, ok := templates[name]
	if !ok {
		return nil, ErrUnknownTemplate
	}
	if data == nil {
		data = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	html := buf.String()
	return &Message{
		To:      to,
		Subject: tpl.subject,
		HTML:    html,
		Text:    StripTags(html),
	}, nil
}

// Custom builds a freeform message from an HTML body.
func Custom(to, subject, html string) (*Message, error) {
	if !ValidAddress(to) {
		return nil, ErrInvalidAddress
	}
	return &Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    StripTags(html),
	}, nil
}

func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
