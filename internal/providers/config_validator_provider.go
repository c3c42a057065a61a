package providers

import (
	"errors"
	"fmt"
	"guildstore/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	if c.conf.Backup.Enabled {
		if c.conf.Backup.FilePath == "" {
			return errors.New("invalid config: backup.filePath is required when backups are enabled")
		}
		if c.conf.Backup.Interval <= 0 {
			return errors.New("invalid config: backup.interval must be positive when backups are enabled")
		}
	}
	if c.conf.Purge.MaxAge < 0 {
		return errors.New("invalid config: purge.maxAge must not be negative")
	}
	return nil
}
