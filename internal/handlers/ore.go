package handlers

import (
	"fmt"

	"guildstore/internal/models"
	"guildstore/internal/registry"
)

type OreHandler struct {
	registry.HandlerBase
}

func NewOreHandler() *OreHandler {
	return &OreHandler{}
}

func (h *OreHandler) Discriminator() string { return models.TypeOre }

func (h *OreHandler) Options() []registry.Option {
	return []registry.Option{
		{Name: "system", Description: "Solar system of the belt", Kind: registry.OptionString, Required: true},
		{Name: "ore", Description: "Ore type", Kind: registry.OptionString, Required: true, Choices: models.OreTypes},
		{Name: "volume", Description: "Estimated volume in m3", Kind: registry.OptionInteger, Required: true},
	}
}

func (h *OreHandler) Parse(in registry.Input) (registry.Content, error) {
	volume, err := integer(in, "volume")
	if err != nil {
		return nil, err
	}
	return models.OreIntel{
		System: text(in, "system"),
		Ore:    choice(in, "ore"),
		Volume: volume,
	}, nil
}

func (h *OreHandler) Decode(raw []byte) (registry.Content, error) {
	return decode[models.OreIntel](raw)
}

func (h *OreHandler) Validate(c registry.Content) error {
	ore, err := contentAs[models.OreIntel](c)
	if err != nil {
		return err
	}
	return validateContent(&ore)
}

func (h *OreHandler) GenerateID() string {
	return registry.GenerateID(models.TypeOre)
}

func (h *OreHandler) Present(c registry.Content) registry.Presentation {
	ore, _ := contentAs[models.OreIntel](c)
	return registry.Presentation{
		Title: fmt.Sprintf("%s in %s", ore.Ore, ore.System),
		Color: 0xf1c40f,
		Fields: []registry.Field{
			field("System", ore.System, true),
			field("Ore", ore.Ore, true),
			field("Volume", fmt.Sprintf("%d m3", ore.Volume), true),
		},
	}
}

func (h *OreHandler) SuccessText(c registry.Content, id string) string {
	ore, _ := contentAs[models.OreIntel](c)
	return fmt.Sprintf("%d m3 of %s in %s logged as %s", ore.Volume, ore.Ore, ore.System, id)
}
