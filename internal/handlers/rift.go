package handlers

import (
	"fmt"

	"guildstore/internal/models"
	"guildstore/internal/registry"
)

type RiftHandler struct {
	registry.HandlerBase
}

func NewRiftHandler() *RiftHandler {
	return &RiftHandler{}
}

func (h *RiftHandler) Discriminator() string { return models.TypeRift }

func (h *RiftHandler) Options() []registry.Option {
	return []registry.Option{
		{Name: "system", Description: "Solar system the rift was scanned in", Kind: registry.OptionString, Required: true},
		{Name: "riftType", Description: "Kind of rift", Kind: registry.OptionString, Required: true, Choices: models.RiftTypes},
		{Name: "signature", Description: "Scanner signature", Kind: registry.OptionString},
		{Name: "notes", Description: "Free text notes", Kind: registry.OptionString},
	}
}

func (h *RiftHandler) Parse(in registry.Input) (registry.Content, error) {
	return models.RiftIntel{
		System:    text(in, "system"),
		RiftType:  choice(in, "riftType"),
		Signature: text(in, "signature"),
		Notes:     text(in, "notes"),
	}, nil
}

func (h *RiftHandler) Decode(raw []byte) (registry.Content, error) {
	return decode[models.RiftIntel](raw)
}

func (h *RiftHandler) Validate(c registry.Content) error {
	rift, err := contentAs[models.RiftIntel](c)
	if err != nil {
		return err
	}
	return validateContent(&rift)
}

func (h *RiftHandler) GenerateID() string {
	return registry.GenerateID(models.TypeRift)
}

func (h *RiftHandler) Present(c registry.Content) registry.Presentation {
	rift, _ := contentAs[models.RiftIntel](c)
	return registry.Presentation{
		Title:       fmt.Sprintf("Rift in %s", rift.System),
		Description: rift.Notes,
		Color:       0x9b59b6,
		Fields: []registry.Field{
			field("System", rift.System, true),
			field("Type", rift.RiftType, true),
			field("Signature", rift.Signature, true),
		},
	}
}

func (h *RiftHandler) SuccessText(c registry.Content, id string) string {
	rift, _ := contentAs[models.RiftIntel](c)
	return fmt.Sprintf("Rift in %s logged as %s", rift.System, id)
}
