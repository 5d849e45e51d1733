// Package discord delivers messages to Discord execute-webhook endpoints.
package discord

import "time"

// Webhook is an execute-webhook destination.
type Webhook struct {
	ID    uint64
	Token string
}

// Message is the execute-webhook JSON body. A message carries either embeds or
// plain content, never both.
type Message struct {
	Content         string          `json:"content,omitempty"`
	Embeds          []Embed         `json:"embeds,omitempty"`
	AllowedMentions AllowedMentions `json:"allowed_mentions"`
}

// AllowedMentions with an empty Parse list suppresses every user, role and everyone ping.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}

type Embed struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Timestamp   time.Time   `json:"timestamp"`
	Author      EmbedAuthor `json:"author"`
	Image       *EmbedImage `json:"image,omitempty"`
}

type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	IconURL string `json:"icon_url"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

func suppressMentions() AllowedMentions {
	return AllowedMentions{Parse: []string{}}
}

func NewEmbedMessage(embeds ...Embed) Message {
	return Message{
		Embeds:          embeds,
		AllowedMentions: suppressMentions(),
	}
}

func NewTextMessage(content string) Message {
	return Message{
		Content:         content,
		AllowedMentions: suppressMentions(),
	}
}
