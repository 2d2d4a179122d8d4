package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/retail_stt_seeder/internal/apperrors"
	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// LoadNoiseProfile resolves ref as a built-in profile name or, failing that, as a path to
// a YAML or JSON profile file. The result is validated.
func LoadNoiseProfile(ref string) (domain.NoiseProfile, error) {
	if p, err := domain.BuiltinProfile(ref); err == nil {
		return p, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NoiseProfile{}, fmt.Errorf("%w: %q is neither a built-in profile (%s) nor a file",
				apperrors.ErrNotFound, ref, strings.Join(domain.BuiltinProfileNames(), ", "))
		}
		return domain.NoiseProfile{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	p, err := ParseNoiseProfile(data, filepath.Ext(ref))
	if err != nil {
		return domain.NoiseProfile{}, fmt.Errorf("profile %s: %w", ref, err)
	}
	return p, nil
}

// ParseNoiseProfile decodes JSON when ext is ".json" and YAML otherwise.
func ParseNoiseProfile(data []byte, ext string) (domain.NoiseProfile, error) {
	var p domain.NoiseProfile
	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("%w: failed to parse JSON: %v", apperrors.ErrValidation, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("%w: failed to parse YAML: %v", apperrors.ErrValidation, err)
		}
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// MarshalNoiseProfile renders p as YAML, the format profile files are usually written in.
func MarshalNoiseProfile(p domain.NoiseProfile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
