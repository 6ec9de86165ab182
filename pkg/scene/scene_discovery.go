package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to Load
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

// DefaultScenesDirs are searched in order by ListScenes and Load
var DefaultScenesDirs = []string{"scenes", "../scenes"}

// Load resolves a scene by built-in name, by path to a .json file, or by the
// name of a .json file in one of the DefaultScenesDirs
func Load(name string) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("empty scene name")
	}
	if s, err := NewBuiltinScene(name); err == nil {
		return s, nil
	}
	if strings.HasSuffix(name, ".json") {
		return LoadFile(name)
	}
	for _, dir := range DefaultScenesDirs {
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("unknown scene: %q", name)
}

// ListSceneFiles scans dir for .json scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			core.Logger().Warn("failed to parse scene metadata", "path", filePath, "error", err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group of a scene file
// without building the scene
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	stem := fileStem(filePath)
	info := SceneInfo{
		ID:          stem,
		Name:        titleCase(stem),
		DisplayName: titleCase(stem),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, err
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, err
	}

	if meta.Name != "" {
		info.Name = meta.Name
		info.DisplayName = titleCase(meta.Name)
	}
	if meta.Group != "" {
		info.Group = meta.Group
	}
	info.Description = meta.Description

	return info, nil
}

// ListScenes returns built-in scenes and scene files, grouped by category
func ListScenes() (ScenesResponse, error) {
	var all []SceneInfo
	for _, name := range BuiltinNames() {
		s, _ := NewBuiltinScene(name)
		all = append(all, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: s.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}

	for _, dir := range DefaultScenesDirs {
		files, err := ListSceneFiles(dir)
		if err != nil {
			return ScenesResponse{}, fmt.Errorf("failed to list scene files: %w", err)
		}
		if len(files) > 0 {
			all = append(all, files...)
			break
		}
	}

	return groupScenes(all), nil
}

// groupScenes groups scenes by their Group field, built-ins first then alphabetical
func groupScenes(all []SceneInfo) ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, s := range all {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response
}

// fileStem returns the file name without directory or extension
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
