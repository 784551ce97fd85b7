// photosync ⸻ internal/config/profile.go
// optional Lua tag profile: extra tags applied to every photo

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LoadTagProfile evaluates profile.lua if present and returns a table of
// extra tag → value pairs (e.g. Copyright, Software) merged into every
// photo write. A missing profile means no extras, not an error.
func LoadTagProfile() (map[string]string, error) {
	paths := []string{
		"./profile.lua",
		"config/profile.lua",
		filepath.Join(os.Getenv("HOME"), ".photosync/config/profile.lua"),
	}

	var profilePath string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			profilePath = path
			break
		}
	}

	if profilePath == "" {
		return nil, nil
	}

	return loadTagProfileFile(profilePath)
}

func loadTagProfileFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(string(data)); err != nil {
		return nil, fmt.Errorf("failed to execute profile Lua: %w", err)
	}

	result := L.Get(-1)
	if result.Type() != lua.LTTable {
		return nil, fmt.Errorf("profile Lua must return a table")
	}

	profile := make(map[string]string)
	lTable := result.(*lua.LTable)
	lTable.ForEach(func(k, v lua.LValue) {
		if k.Type() == lua.LTString && v.Type() == lua.LTString {
			profile[k.String()] = v.String()
		}
	})

	return expandDynamicFields(profile), nil
}

// {{now}} expands to today's date at evaluation time
func expandDynamicFields(profile map[string]string) map[string]string {
	result := make(map[string]string, len(profile))
	for k, v := range profile {
		if v == "{{now}}" {
			result[k] = time.Now().Format("2006-01-02")
		} else {
			result[k] = v
		}
	}
	return result
}
