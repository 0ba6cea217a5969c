package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/myui-dev/myui/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MYUI_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

var envVars = []envVar{
	{"HOST", func(c *Config, v string) error { c.Server.Host = v; return nil }},
	{"PORT", func(c *Config, v string) error { return setInt(&c.Server.Port, v) }},
	{"CORS_ORIGINS", func(c *Config, v string) error { c.Server.CORSOrigins = splitList(v); return nil }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil }},
	{"STORE_DRIVER", func(c *Config, v string) error { c.Store.Driver = strings.ToLower(v); return nil }},
	{"STORE_PATH", func(c *Config, v string) error { c.Store.Path = v; return nil }},
	{"BOLT_PATH", func(c *Config, v string) error { c.Store.Bolt.Path = v; return nil }},
	{"S3_BUCKET", func(c *Config, v string) error { c.Store.S3.Bucket = v; return nil }},
	{"S3_KEY", func(c *Config, v string) error { c.Store.S3.Key = v; return nil }},
	{"S3_REGION", func(c *Config, v string) error { c.Store.S3.Region = v; return nil }},
	{"S3_ENDPOINT", func(c *Config, v string) error { c.Store.S3.Endpoint = v; return nil }},
	{"S3_PATH_STYLE", func(c *Config, v string) error { return setBool(&c.Store.S3.UsePathStyle, v) }},
	{"LIVE_PATH", func(c *Config, v string) error { c.Live.Path = v; return nil }},
	{"LIVE_PING_INTERVAL", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Live.PingInterval = Duration(d)
		return nil
	}},
	{"LIVE_DEBUG", func(c *Config, v string) error { return setBool(&c.Live.Debug, v) }},
	{"METRICS_ENABLED", func(c *Config, v string) error {
		var b bool
		if err := setBool(&b, v); err != nil {
			return err
		}
		c.Metrics.Enabled = &b
		return nil
	}},
}

// ApplyEnv overrides fields from MYUI_* variables found by lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.apply(c, strings.TrimSpace(v)); err != nil {
			return errors.New("E122").
				WithDetailf("%s%s=%q: %v", EnvPrefix, ev.name, v, err).
				Wrap(err)
		}
	}
	return nil
}

// EnvNames lists the supported environment variables.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
