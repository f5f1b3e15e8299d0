package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeMerge()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("MENUMERGE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.Assignment = strings.ToLower(strings.TrimSpace(c.Matching.Assignment))
	if c.Matching.Assignment == "" {
		c.Matching.Assignment = AssignmentGreedy
	}
	if c.Matching.Workers <= 0 {
		c.Matching.Workers = defaultWorkers
	}
}

func (c *Config) normalizeMerge() {
	checklist := make([]string, 0, len(c.Merge.RequiredFieldsChecklist))
	for _, entry := range c.Merge.RequiredFieldsChecklist {
		parts := strings.Split(entry, "|")
		kept := parts[:0]
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				kept = append(kept, part)
			}
		}
		if len(kept) == 0 {
			continue
		}
		checklist = append(checklist, strings.Join(kept, "|"))
	}
	c.Merge.RequiredFieldsChecklist = checklist

	c.Merge.DefaultPrecedence = normalizeSelectors(c.Merge.DefaultPrecedence)
	if len(c.Merge.DefaultPrecedence) == 0 {
		c.Merge.DefaultPrecedence = []string{"b", "a"}
	}
	for field, order := range c.Merge.FieldPrecedence {
		c.Merge.FieldPrecedence[field] = normalizeSelectors(order)
	}
}

func normalizeSelectors(order []string) []string {
	out := make([]string, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, sel := range order {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if _, dup := seen[sel]; dup {
			continue
		}
		seen[sel] = struct{}{}
		out = append(out, sel)
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("MENUMERGE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
