package handlers

import (
	"fmt"

	"guildstore/internal/models"
	"guildstore/internal/registry"
)

type SiteHandler struct {
	registry.HandlerBase
}

func NewSiteHandler() *SiteHandler {
	return &SiteHandler{}
}

func (h *SiteHandler) Discriminator() string { return models.TypeSite }

func (h *SiteHandler) Options() []registry.Option {
	return []registry.Option{
		{Name: "system", Description: "Solar system of the site", Kind: registry.OptionString, Required: true},
		{Name: "siteName", Description: "Name of the site", Kind: registry.OptionString, Required: true},
		{Name: "siteType", Description: "Kind of site", Kind: registry.OptionString, Required: true, Choices: models.SiteTypes},
		{Name: "notes", Description: "Free text notes", Kind: registry.OptionString},
	}
}

func (h *SiteHandler) Parse(in registry.Input) (registry.Content, error) {
	return models.SiteIntel{
		System:   text(in, "system"),
		SiteName: text(in, "siteName"),
		SiteType: choice(in, "siteType"),
		Notes:    text(in, "notes"),
	}, nil
}

func (h *SiteHandler) Decode(raw []byte) (registry.Content, error) {
	return decode[models.SiteIntel](raw)
}

func (h *SiteHandler) Validate(c registry.Content) error {
	site, err := contentAs[models.SiteIntel](c)
	if err != nil {
		return err
	}
	return validateContent(&site)
}

func (h *SiteHandler) GenerateID() string {
	return registry.GenerateID(models.TypeSite)
}

func (h *SiteHandler) Present(c registry.Content) registry.Presentation {
	site, _ := contentAs[models.SiteIntel](c)
	return registry.Presentation{
		Title:       site.SiteName,
		Description: site.Notes,
		Color:       0x2ecc71,
		Fields: []registry.Field{
			field("System", site.System, true),
			field("Type", site.SiteType, true),
		},
	}
}

func (h *SiteHandler) SuccessText(c registry.Content, id string) string {
	site, _ := contentAs[models.SiteIntel](c)
	return fmt.Sprintf("%s site %s in %s logged as %s", site.SiteType, site.SiteName, site.System, id)
}
