package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"wedding-guests/internal/export"
	"wedding-guests/internal/models"
)

var ErrNothingToShare = errors.New("guest list is empty")

// DocumentSender delivers a file to a phone number
type DocumentSender interface {
	SendDocument(ctx context.Context, phoneNumber, fileName string, data []byte, caption string) error
}

// GuestSource provides the current guest list
type GuestSource interface {
	Guests() []models.Guest
}

// Share sends the exported guest list to a fixed recipient
type Share struct {
	guests    GuestSource
	sender    DocumentSender
	recipient string
	title     string
}

// NewShare creates a share handler
func NewShare(guests GuestSource, sender DocumentSender, recipient, title string) *Share {
	return &Share{
		guests:    guests,
		sender:    sender,
		recipient: recipient,
		title:     title,
	}
}

// Send exports the current list and sends it. It returns ErrNothingToShare
// when there are no guests.
func (h *Share) Send(ctx context.Context) error {
	guests := h.guests.Guests()

	var buf bytes.Buffer
	wrote, err := export.Write(&buf, export.Relabel(guests))
	if err != nil {
		return fmt.Errorf("failed to export guests: %w", err)
	}
	if !wrote {
		return ErrNothingToShare
	}

	caption := fmt.Sprintf("%s (%d)", h.title, len(guests))
	if err := h.sender.SendDocument(ctx, h.recipient, export.FileName, buf.Bytes(), caption); err != nil {
		return fmt.Errorf("failed to share guest list: %w", err)
	}
	return nil
}
