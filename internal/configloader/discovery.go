package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// appName names the system and user configuration directories.
const appName = "inlinemark"

// Layer is one level of the configuration stack, lowest precedence first.
type Layer int

const (
	LayerSystem   Layer = iota // /etc/inlinemark/config.yaml
	LayerUser                  // $XDG_CONFIG_HOME/inlinemark/config.yaml
	LayerProject               // nearest .inlinemark.yml
	LayerExplicit              // --config
	LayerEnv                   // INLINEMARK_* variables
)

func (l Layer) String() string {
	switch l {
	case LayerSystem:
		return "system"
	case LayerUser:
		return "user"
	case LayerProject:
		return "project"
	case LayerExplicit:
		return "explicit"
	case LayerEnv:
		return "env"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// Source is a configuration file and the layer it was found at.
type Source struct {
	Layer Layer
	Path  string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigFiles = []string{".inlinemark.yml", ".inlinemark.yaml", "inlinemark.yml", "inlinemark.yaml"}
	layerConfigFiles   = []string{"config.yaml", "config.yml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverSources returns the configuration files that apply in workDir,
// lowest precedence first. Layers in skip are not searched. An explicit
// path replaces the project layer.
func DiscoverSources(ctx context.Context, workDir, explicit string, skip ...Layer) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	var sources []Source
	add := func(layer Layer, path string) {
		if path != "" && !slices.Contains(skip, layer) {
			sources = append(sources, Source{Layer: layer, Path: path})
		}
	}

	add(LayerSystem, firstFile(systemConfigDir(), layerConfigFiles))
	add(LayerUser, firstFile(userConfigDir(), layerConfigFiles))

	if explicit != "" {
		add(LayerExplicit, explicit)
		return sources, nil
	}
	if slices.Contains(skip, LayerProject) {
		return sources, nil
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	add(LayerProject, project)
	return sources, nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, appName)
	}
	return filepath.Join("/etc", appName)
}

// userConfigDir follows XDG_CONFIG_HOME, falling back to ~/.config.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appName)
	}
	return ""
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir looking for a project config
// file. The search stops at a VCS root, the home directory or the
// filesystem root. It returns "" when nothing is found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if found := firstFile(dir, projectConfigFiles); found != "" {
			return found, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc(vcsRootMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}
