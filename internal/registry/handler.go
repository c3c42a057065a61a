package registry

type OptionKind string

const (
	OptionString  OptionKind = "string"
	OptionInteger OptionKind = "integer"
	OptionBoolean OptionKind = "boolean"
)

// Option describes one input a handler collects from the caller.
type Option struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Kind        OptionKind `json:"kind"`
	Required    bool       `json:"required"`
	Choices     []string   `json:"choices,omitempty"`
}

// Input is the raw option values keyed by option name.
type Input map[string]string

// Content is the typed payload a handler parses out of an Input.
type Content interface {
	Discriminator() string
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Presentation is a transport-neutral description of an embed.
type Presentation struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields"`
	Footer      string  `json:"footer,omitempty"`
}

// Handler is the capability every record type variant implements. The set of
// variants is closed: implementations embed HandlerBase.
type Handler interface {
	Discriminator() string
	Options() []Option
	Parse(in Input) (Content, error)
	// Decode rebuilds stored content from its encoded form.
	Decode(raw []byte) (Content, error)
	Validate(c Content) error
	GenerateID() string
	Present(c Content) Presentation
	SuccessText(c Content, id string) string

	handler()
}

// HandlerBase seals Handler to the variants that embed it.
type HandlerBase struct{}

func (HandlerBase) handler() {}
