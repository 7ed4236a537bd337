package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Read reads a config from the given file, substituting environment variables first.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Config{}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	cfg.ConfigFilePath = originalPath
	if err := cfg.Validate("owiarm"); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", originalPath)
	}
	return &cfg, nil
}

// ReadKeyframes reads a bare array of keyframes and validates each one against limits. The file is JSON5, so
// hand edited lists may carry comments and trailing commas.
func ReadKeyframes(filePath string, cfg *Config) ([][]float64, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var kfs [][]float64
	if err := json5.Unmarshal(buf, &kfs); err != nil {
		return nil, errors.Wrapf(err, "failed to decode keyframes from %q", filePath)
	}
	limits := cfg.ResolvedLimits()
	for i, kf := range kfs {
		if err := ValidateKeyframe(kf, limits); err != nil {
			return nil, errors.Wrapf(err, "keyframe %d", i)
		}
	}
	return kfs, nil
}
