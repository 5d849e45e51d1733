package misskey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrPayloadNotFound = errors.New("webhook payload not found")
	ErrInvalidPayload  = errors.New("webhook payload parse error")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type userPayload struct {
	Name      *string `json:"name"`
	Username  *string `json:"username" validate:"required"`
	Host      *string `json:"host"`
	AvatarURL *string `json:"avatarUrl" validate:"required"`
}

type driveFilePayload struct {
	URL  *string `json:"url" validate:"required"`
	Type *string `json:"type" validate:"required"`
}

type notePayload struct {
	ID        *string            `json:"id" validate:"required"`
	CreatedAt *time.Time         `json:"createdAt" validate:"required"`
	Text      *string            `json:"text"`
	CW        *string            `json:"cw"`
	User      *userPayload       `json:"user" validate:"required"`
	Files     []driveFilePayload `json:"files" validate:"dive"`
}

type abuseReportPayload struct {
	TargetUser *userPayload `json:"targetUser"`
	Reporter   *userPayload `json:"reporter"`
	Comment    *string      `json:"comment" validate:"required"`
}

// DecodeNote extracts body.note from a note-family webhook body.
func DecodeNote(body json.RawMessage) (*Note, error) {
	if isAbsent(body) {
		return nil, ErrPayloadNotFound
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrPayloadNotFound
	}

	raw, ok := fields["note"]
	if !ok || isAbsent(raw) {
		return nil, ErrPayloadNotFound
	}

	var p notePayload
	if err := decodeStrict(raw, &p); err != nil {
		return nil, err
	}

	note := &Note{
		ID:        *p.ID,
		CreatedAt: *p.CreatedAt,
		Text:      p.Text,
		CW:        p.CW,
		User:      p.User.toUser(),
		Files:     make([]DriveFile, 0, len(p.Files)),
	}
	for _, f := range p.Files {
		note.Files = append(note.Files, DriveFile{URL: *f.URL, Type: *f.Type})
	}

	return note, nil
}

// DecodeAbuseReport decodes an abuseReport webhook body, which is the report itself.
func DecodeAbuseReport(body json.RawMessage) (*AbuseReport, error) {
	if isAbsent(body) {
		return nil, ErrPayloadNotFound
	}

	var p abuseReportPayload
	if err := decodeStrict(body, &p); err != nil {
		return nil, err
	}

	report := &AbuseReport{Comment: *p.Comment}
	if p.TargetUser != nil {
		u := p.TargetUser.toUser()
		report.TargetUser = &u
	}
	if p.Reporter != nil {
		u := p.Reporter.toUser()
		report.Reporter = &u
	}

	return report, nil
}

func decodeStrict(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (p *userPayload) toUser() User {
	return User{
		Name:      p.Name,
		Username:  *p.Username,
		Host:      p.Host,
		AvatarURL: *p.AvatarURL,
	}
}
