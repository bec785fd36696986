// Package prefs resolves the reduced-motion preference and watches it for
// changes. Every failure resolves to "motion allowed".
package prefs

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvReducedMotion overrides the preference file when set to a boolean
const EnvReducedMotion = "ORBITFOLIO_REDUCED_MOTION"

// ErrNoPreference is returned when no preference source is configured
var ErrNoPreference = errors.New("no motion preference configured")

// File is the on-disk preference document
type File struct {
	ReduceMotion bool `yaml:"reduce_motion"`
}

// Read loads the reduce_motion flag from path
func Read(path string) (bool, error) {
	if path == "" {
		return false, ErrNoPreference
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read motion preference: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return false, fmt.Errorf("parse motion preference %s: %w", path, err)
	}
	return f.ReduceMotion, nil
}

// Write stores the reduce_motion flag at path
func Write(path string, reduced bool) error {
	data, err := yaml.Marshal(File{ReduceMotion: reduced})
	if err != nil {
		return fmt.Errorf("marshal motion preference: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write motion preference: %w", err)
	}
	return nil
}

// Override reads the environment override. ok is false when it is unset or
// not a boolean.
func Override(log *zap.Logger) (reduced, ok bool) {
	v, set := os.LookupEnv(EnvReducedMotion)
	if !set {
		return false, false
	}
	reduced, err := strconv.ParseBool(v)
	if err != nil {
		if log != nil {
			log.Warn("ignoring invalid reduced-motion override",
				zap.String("env", EnvReducedMotion), zap.String("value", v))
		}
		return false, false
	}
	return reduced, true
}

// Resolve returns the startup preference and whether the preference file
// should be watched. forced is a reduction requested by flag or config. It and
// the environment pin the value for the whole run. Anything unreadable means
// motion is allowed.
func Resolve(path string, forced bool, log *zap.Logger) (reduced, watch bool) {
	if forced {
		return true, false
	}
	if log == nil {
		log = zap.NewNop()
	}
	if reduced, ok := Override(log); ok {
		return reduced, false
	}
	return fromFile(path, log), path != ""
}

func fromFile(path string, log *zap.Logger) bool {
	reduced, err := Read(path)
	if err != nil {
		if !errors.Is(err, ErrNoPreference) {
			log.Warn("motion preference unavailable, allowing motion", zap.Error(err))
		}
		return false
	}
	return reduced
}
