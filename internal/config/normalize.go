package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment overrides, and
// canonicalizes string fields before validation.
func (c *Config) normalize() error {
	for _, p := range []*string{&c.Paths.WorkDir, &c.Paths.LogDir} {
		expanded, err := expandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}
		*p = expanded
	}

	if override := strings.TrimSpace(os.Getenv(EnvKernelBinary)); override != "" {
		c.Kernel.Binary = override
	}
	c.Kernel.Binary = strings.TrimSpace(c.Kernel.Binary)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
