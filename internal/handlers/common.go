package handlers

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"github.com/spf13/cast"

	"guildstore/internal/registry"
)

const (
	colorHostile  = 0xe74c3c
	colorFriendly = 0x3498db
)

var ErrWrongContent = errors.New("content does not belong to handler")

// NewDefaultRegistry returns a registry holding the default handlers.
func NewDefaultRegistry() *registry.Registry {
	r := registry.NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the rift, ore, fleet and site handlers.
func RegisterDefaults(r *registry.Registry) {
	for _, h := range []registry.Handler{
		NewRiftHandler(),
		NewOreHandler(),
		NewFleetHandler(),
		NewSiteHandler(),
	} {
		r.Register(h.Discriminator(), h)
	}
}

func validateContent(c any) error {
	v := validate.Struct(c)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}
	return nil
}

func text(in registry.Input, name string) string {
	return strings.TrimSpace(in[name])
}

func choice(in registry.Input, name string) string {
	return strings.ToLower(text(in, name))
}

func integer(in registry.Input, name string) (int, error) {
	raw := text(in, name)
	if raw == "" {
		return 0, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("option %s: %q is not an integer", name, raw)
	}
	return n, nil
}

func boolean(in registry.Input, name string) (bool, error) {
	raw := text(in, name)
	if raw == "" {
		return false, nil
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("option %s: %q is not a boolean", name, raw)
	}
	return b, nil
}

func decode[T registry.Content](raw []byte) (registry.Content, error) {
	var c T
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func contentAs[T registry.Content](c registry.Content) (T, error) {
	switch v := any(c).(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %T", ErrWrongContent, c)
}

func field(name, value string, inline bool) registry.Field {
	if value == "" {
		value = "-"
	}
	return registry.Field{Name: name, Value: value, Inline: inline}
}
