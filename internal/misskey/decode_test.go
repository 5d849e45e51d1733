package misskey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noteBody = `{
  "note": {
    "id": "9kq1z2",
    "createdAt": "2023-10-01T12:34:56.789Z",
    "text": "hello fediverse",
    "cw": null,
    "user": {
      "name": "Alice",
      "username": "alice",
      "host": null,
      "avatarUrl": "https://example.test/avatar/alice.png"
    },
    "files": [
      {"url": "https://example.test/files/a.svg", "type": "image/svg+xml"},
      {"url": "https://example.test/files/b.png", "type": "image/png"}
    ]
  }
}`

func TestDecodeNote(t *testing.T) {
	note, err := DecodeNote(json.RawMessage(noteBody))
	require.NoError(t, err)

	assert.Equal(t, "9kq1z2", note.ID)
	assert.Equal(t, time.Date(2023, 10, 1, 12, 34, 56, 789000000, time.UTC), note.CreatedAt.UTC())
	require.NotNil(t, note.Text)
	assert.Equal(t, "hello fediverse", *note.Text)
	assert.Nil(t, note.CW)
	assert.Equal(t, "alice", note.User.Username)
	assert.Nil(t, note.User.Host)
	assert.Equal(t, "Alice", note.User.DisplayName())
	require.Len(t, note.Files, 2)
	assert.Equal(t, "image/png", note.Files[1].Type)
}

func TestDecodeNote_FilesOptional(t *testing.T) {
	body := `{"note":{"id":"n1","createdAt":"2023-10-01T00:00:00Z","user":{"username":"bob","avatarUrl":""}}}`

	note, err := DecodeNote(json.RawMessage(body))
	require.NoError(t, err)
	assert.Empty(t, note.Files)
	assert.Nil(t, note.Text)
	assert.Equal(t, "", note.User.AvatarURL)
}

func TestDecodeNote_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "no body", body: ``, want: ErrPayloadNotFound},
		{name: "null body", body: `null`, want: ErrPayloadNotFound},
		{name: "body not object", body: `"text"`, want: ErrPayloadNotFound},
		{name: "no note", body: `{"user":{}}`, want: ErrPayloadNotFound},
		{name: "null note", body: `{"note":null}`, want: ErrPayloadNotFound},
		{
			name: "missing id",
			body: `{"note":{"createdAt":"2023-10-01T00:00:00Z","user":{"username":"bob","avatarUrl":"x"}}}`,
			want: ErrInvalidPayload,
		},
		{
			name: "bad timestamp",
			body: `{"note":{"id":"n","createdAt":"yesterday","user":{"username":"bob","avatarUrl":"x"}}}`,
			want: ErrInvalidPayload,
		},
		{
			name: "text wrong type",
			body: `{"note":{"id":"n","createdAt":"2023-10-01T00:00:00Z","text":5,"user":{"username":"bob","avatarUrl":"x"}}}`,
			want: ErrInvalidPayload,
		},
		{
			name: "missing username",
			body: `{"note":{"id":"n","createdAt":"2023-10-01T00:00:00Z","user":{"avatarUrl":"x"}}}`,
			want: ErrInvalidPayload,
		},
		{
			name: "missing user",
			body: `{"note":{"id":"n","createdAt":"2023-10-01T00:00:00Z"}}`,
			want: ErrInvalidPayload,
		},
		{
			name: "file without type",
			body: `{"note":{"id":"n","createdAt":"2023-10-01T00:00:00Z","user":{"username":"bob","avatarUrl":"x"},"files":[{"url":"u"}]}}`,
			want: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeNote(json.RawMessage(tt.body))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeAbuseReport(t *testing.T) {
	body := `{
	  "targetUser": {"username": "troll", "host": "remote.test", "avatarUrl": "a"},
	  "reporter": null,
	  "comment": "spam"
	}`

	report, err := DecodeAbuseReport(json.RawMessage(body))
	require.NoError(t, err)

	require.NotNil(t, report.TargetUser)
	assert.Equal(t, "@troll@remote.test", report.TargetUser.Acct())
	assert.Nil(t, report.Reporter)
	assert.Equal(t, "spam", report.Comment)
}

func TestDecodeAbuseReport_Errors(t *testing.T) {
	_, err := DecodeAbuseReport(nil)
	assert.ErrorIs(t, err, ErrPayloadNotFound)

	_, err = DecodeAbuseReport(json.RawMessage(`{"reporter":null}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeAbuseReport(json.RawMessage(`{"comment":"x","reporter":{"host":"h"}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestUser_Helpers(t *testing.T) {
	host := "remote.test"
	empty := ""

	assert.Equal(t, "@bob", User{Username: "bob"}.Acct())
	assert.Equal(t, "@bob@remote.test", User{Username: "bob", Host: &host}.Acct())
	assert.Equal(t, "bob", User{Username: "bob"}.DisplayName())
	assert.Equal(t, "bob", User{Username: "bob", Name: &empty}.DisplayName())
}
