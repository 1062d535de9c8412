package config

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultProfilesFile = ".atlasdatasets"

// Registry lists the dataset profiles of an ini file:
//
//	[default]
//	path = shopping_trends.csv
//
//	[archive]
//	path = s3://retail-datasets/shopping_trends.csv
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.DatasetProfile, error)
	GetProfile(ctx context.Context, name string) (domain.DatasetProfile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniRegistry{cfg: cfg}, nil
}

// DefaultProfilesPath is $HOME/.atlasdatasets.
func DefaultProfilesPath() string {
	usr, err := user.Current()
	if err != nil {
		return DefaultProfilesFile
	}
	return filepath.Join(usr.HomeDir, DefaultProfilesFile)
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]domain.DatasetProfile, error) {
	var profiles []domain.DatasetProfile
	for _, section := range r.cfg.Sections() {
		if !section.HasKey("path") {
			continue
		}
		profiles = append(profiles, toProfile(section))
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (domain.DatasetProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || !section.HasKey("path") {
		return domain.DatasetProfile{}, fmt.Errorf("profile %s not found", name)
	}
	return toProfile(section), nil
}

func toProfile(section *ini.Section) domain.DatasetProfile {
	path := section.Key("path").String()
	profile := domain.DatasetProfile{
		Name: section.Name(),
		Path: path,
		Type: domain.SourceTypeFile,
	}
	if strings.HasPrefix(path, "s3://") {
		profile.Type = domain.SourceTypeS3
	}
	return profile
}

// ResolveDatasetPath returns the dataset location, preferring a named profile.
func ResolveDatasetPath(ctx context.Context, cfg DatasetConfig) (string, error) {
	if cfg.Profile == "" {
		return cfg.Path, nil
	}

	profilesPath := cfg.Profiles
	if profilesPath == "" {
		profilesPath = DefaultProfilesPath()
	}
	registry, err := NewRegistry(profilesPath)
	if err != nil {
		return "", fmt.Errorf("failed to load dataset profiles: %w", err)
	}
	profile, err := registry.GetProfile(ctx, cfg.Profile)
	if err != nil {
		return "", err
	}
	return profile.Path, nil
}
