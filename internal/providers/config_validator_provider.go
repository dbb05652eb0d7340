package providers

import (
	"errors"
	"falci/internal/structures"
	"fmt"
	"time"

	"github.com/gookit/validate"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}

	switch c.conf.Storage.Type {
	case "redis":
		if c.conf.Storage.Redis.Addr == "" {
			return errors.New("invalid configuration: storage.redis.addr is required for redis storage")
		}
	case "sqlite":
		if c.conf.Storage.SQLite.Path == "" {
			return errors.New("invalid configuration: storage.sqlite.path is required for sqlite storage")
		}
	}

	if c.conf.Reading.Timezone != "" {
		if _, err := time.LoadLocation(c.conf.Reading.Timezone); err != nil {
			return fmt.Errorf("invalid configuration: reading.timezone: %w", err)
		}
	}
	return nil
}
