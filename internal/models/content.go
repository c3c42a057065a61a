package models

const (
	TypeRift  = "rift"
	TypeOre   = "ore"
	TypeFleet = "fleet"
	TypeSite  = "site"
)

var (
	RiftTypes = []string{"wormhole", "static", "wandering", "k162"}
	OreTypes  = []string{"veldspar", "scordite", "pyroxeres", "plagioclase", "omber", "kernite", "jaspet", "hemorphite", "hedbergite", "gneiss", "dark-ochre", "spodumain", "crokite", "bistot", "arkonor", "mercoxit"}
	SiteTypes = []string{"combat", "data", "relic", "gas", "ore"}
)

type RiftIntel struct {
	System    string `json:"system" validate:"required|maxLen:64"`
	RiftType  string `json:"riftType" validate:"required|in:wormhole,static,wandering,k162"`
	Signature string `json:"signature,omitempty" validate:"maxLen:16"`
	Notes     string `json:"notes,omitempty" validate:"maxLen:512"`
}

func (RiftIntel) Discriminator() string { return TypeRift }

type OreIntel struct {
	System string `json:"system" validate:"required|maxLen:64"`
	Ore    string `json:"ore" validate:"required|in:veldspar,scordite,pyroxeres,plagioclase,omber,kernite,jaspet,hemorphite,hedbergite,gneiss,dark-ochre,spodumain,crokite,bistot,arkonor,mercoxit"`
	Volume int    `json:"volume" validate:"required|min:1|max:100000000"`
}

func (OreIntel) Discriminator() string { return TypeOre }

type FleetIntel struct {
	Location string `json:"location" validate:"required|maxLen:64"`
	Size     int    `json:"size" validate:"required|min:1|max:10000"`
	Doctrine string `json:"doctrine,omitempty" validate:"maxLen:64"`
	Hostile  bool   `json:"hostile"`
}

func (FleetIntel) Discriminator() string { return TypeFleet }

type SiteIntel struct {
	System   string `json:"system" validate:"required|maxLen:64"`
	SiteName string `json:"siteName" validate:"required|maxLen:128"`
	SiteType string `json:"siteType" validate:"required|in:combat,data,relic,gas,ore"`
	Notes    string `json:"notes,omitempty" validate:"maxLen:512"`
}

func (SiteIntel) Discriminator() string { return TypeSite }
