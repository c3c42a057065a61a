package handlers

import (
	"fmt"
	"strconv"

	"guildstore/internal/models"
	"guildstore/internal/registry"
)

type FleetHandler struct {
	registry.HandlerBase
}

func NewFleetHandler() *FleetHandler {
	return &FleetHandler{}
}

func (h *FleetHandler) Discriminator() string { return models.TypeFleet }

func (h *FleetHandler) Options() []registry.Option {
	return []registry.Option{
		{Name: "location", Description: "Where the fleet was seen", Kind: registry.OptionString, Required: true},
		{Name: "size", Description: "Number of pilots", Kind: registry.OptionInteger, Required: true},
		{Name: "doctrine", Description: "Ship doctrine", Kind: registry.OptionString},
		{Name: "hostile", Description: "Whether the fleet is hostile", Kind: registry.OptionBoolean},
	}
}

func (h *FleetHandler) Parse(in registry.Input) (registry.Content, error) {
	size, err := integer(in, "size")
	if err != nil {
		return nil, err
	}
	hostile, err := boolean(in, "hostile")
	if err != nil {
		return nil, err
	}
	return models.FleetIntel{
		Location: text(in, "location"),
		Size:     size,
		Doctrine: text(in, "doctrine"),
		Hostile:  hostile,
	}, nil
}

func (h *FleetHandler) Decode(raw []byte) (registry.Content, error) {
	return decode[models.FleetIntel](raw)
}

func (h *FleetHandler) Validate(c registry.Content) error {
	fleet, err := contentAs[models.FleetIntel](c)
	if err != nil {
		return err
	}
	return validateContent(&fleet)
}

func (h *FleetHandler) GenerateID() string {
	return registry.GenerateID(models.TypeFleet)
}

func (h *FleetHandler) Present(c registry.Content) registry.Presentation {
	fleet, _ := contentAs[models.FleetIntel](c)

	title, color := "Friendly fleet", colorFriendly
	if fleet.Hostile {
		title, color = "Hostile fleet", colorHostile
	}
	return registry.Presentation{
		Title: fmt.Sprintf("%s at %s", title, fleet.Location),
		Color: color,
		Fields: []registry.Field{
			field("Location", fleet.Location, true),
			field("Size", strconv.Itoa(fleet.Size), true),
			field("Doctrine", fleet.Doctrine, true),
		},
	}
}

func (h *FleetHandler) SuccessText(c registry.Content, id string) string {
	fleet, _ := contentAs[models.FleetIntel](c)
	return fmt.Sprintf("Fleet of %d at %s logged as %s", fleet.Size, fleet.Location, id)
}
