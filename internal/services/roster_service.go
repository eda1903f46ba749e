package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alimgiray/commitboard/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadRoster reads the static team list from a .json, .yaml or .yml file
func LoadRoster(path string) ([]models.TeamMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	roster, err := ParseRoster(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return roster, nil
}

// ParseRoster decodes roster data. YAML is used for .yaml/.yml, JSON otherwise.
func ParseRoster(data []byte, ext string) ([]models.TeamMember, error) {
	var roster []models.TeamMember

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &roster); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
	default:
		if err := json.Unmarshal(data, &roster); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
	}

	if roster == nil {
		roster = []models.TeamMember{}
	}
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// validateRoster requires non-empty, unique usernames
func validateRoster(roster []models.TeamMember) error {
	seen := make(map[string]struct{}, len(roster))
	for i := range roster {
		roster[i].Username = strings.TrimSpace(roster[i].Username)
		username := roster[i].Username
		if username == "" {
			return fmt.Errorf("%w: member %d has no username", ErrInvalidRoster, i)
		}
		if _, dup := seen[username]; dup {
			return fmt.Errorf("%w: duplicate username %q", ErrInvalidRoster, username)
		}
		seen[username] = struct{}{}
	}
	return nil
}
