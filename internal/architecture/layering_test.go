package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	fset := token.NewFileSet()
	root := filepath.Join("..", "modules")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slash := filepath.ToSlash(path)
		module := moduleName(slash)
		layer := detectLayer(slash)
		if module == "" || layer == "" {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.Contains(importPath, "pomodoro/internal/modules/") {
				continue
			}
			if violatesLayerRule(module, layer, importPath) {
				t.Fatalf("forbidden import in %s (%s): %s", slash, layer, importPath)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk modules: %v", err)
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

// inLayer matches both ".../service/x" and a package path ending in ".../service".
func inLayer(path, layer string) bool {
	return strings.Contains(path, "/"+layer+"/") || strings.HasSuffix(path, "/"+layer)
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		if layer == "domain" {
			return true
		}
		if inLayer(importPath, "service") || inLayer(importPath, "adapter") || inLayer(importPath, "usecase") {
			return true
		}
		if inLayer(importPath, "port/in") || inLayer(importPath, "dto") {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !inLayer(importPath, "port/in") && !inLayer(importPath, "dto")
	case "usecase":
		return inLayer(importPath, "adapter")
	case "service":
		return inLayer(importPath, "adapter") || inLayer(importPath, "usecase")
	case "domain":
		return inLayer(importPath, "adapter") || inLayer(importPath, "usecase") || inLayer(importPath, "service")
	default:
		return false
	}
}

func TestViolatesLayerRule(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, importPath string
		want                      bool
	}{
		{"timer", "adapter/out", "pomodoro/internal/modules/progress/port/in", false},
		{"timer", "adapter/out", "pomodoro/internal/modules/progress/service", true},
		{"timer", "adapter/in", "pomodoro/internal/modules/timer/service", true},
		{"timer", "adapter/in", "pomodoro/internal/modules/timer/dto", false},
		{"progress", "domain", "pomodoro/internal/modules/gamification/domain", true},
		{"progress", "usecase", "pomodoro/internal/modules/progress/adapter/out", true},
		{"progress", "usecase", "pomodoro/internal/modules/progress/port/out", false},
	}
	for _, tc := range cases {
		if got := violatesLayerRule(tc.module, tc.layer, tc.importPath); got != tc.want {
			t.Fatalf("violatesLayerRule(%s, %s, %s) = %t, want %t", tc.module, tc.layer, tc.importPath, got, tc.want)
		}
	}
}
