package relay

import (
	"fmt"

	"noterelay/internal/discord"
	"noterelay/internal/misskey"
)

const (
	noContent   = "(no content)"
	unknownUser = "unknown_user"
)

var embeddableImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// TranslateNote renders a note as a single embed. server must already be normalized.
func TranslateNote(note *misskey.Note, server string) discord.Embed {
	user := note.User

	authorURL := fmt.Sprintf("%s/@%s", server, user.Username)
	if user.Host != nil {
		authorURL = fmt.Sprintf("%s/@%s@%s", server, user.Username, *user.Host)
	}

	embed := discord.Embed{
		Title:       fmt.Sprintf("%s (@%s)", user.DisplayName(), user.Username),
		Description: noteDescription(note),
		URL:         fmt.Sprintf("%s/notes/%s", server, note.ID),
		Timestamp:   note.CreatedAt,
		Author: discord.EmbedAuthor{
			Name:    "@" + user.Username,
			URL:     authorURL,
			IconURL: user.AvatarURL,
		},
	}

	// first embeddable image wins
	for _, f := range note.Files {
		if embeddableImageTypes[f.Type] {
			embed.Image = &discord.EmbedImage{URL: f.URL}
			break
		}
	}

	return embed
}

func noteDescription(note *misskey.Note) string {
	hasText := note.Text != nil && *note.Text != ""

	if note.CW != nil && *note.CW != "" {
		if !hasText {
			return "CW: " + *note.CW
		}
		return fmt.Sprintf("CW: %s\n||%s||", *note.CW, *note.Text)
	}

	if !hasText {
		return noContent
	}
	return *note.Text
}

// DescribeUser renders an abuse-report party, or "unknown_user" when absent.
func DescribeUser(u *misskey.User) string {
	if u == nil {
		return unknownUser
	}
	return u.Acct()
}

func TranslateAbuseReport(report *misskey.AbuseReport) string {
	return fmt.Sprintf(
		"New abuse report created!\nReporter: %s\nTarget User: %s\nComment\n%s",
		DescribeUser(report.Reporter),
		DescribeUser(report.TargetUser),
		report.Comment,
	)
}
