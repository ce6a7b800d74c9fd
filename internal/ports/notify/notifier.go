package notify

import "context"

// Message es un correo saliente ya armado.
type Message struct {
	To        string
	ReplyTo   string
	Subject   string
	BodyLines []string
}

// Notifier envía correos best-effort: el que llama loguea el error y sigue;
// nunca bloquea ni revierte la mutación que lo disparó. Sin reintentos.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
