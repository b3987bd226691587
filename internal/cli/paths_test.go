package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/chartlabels/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		ch, err := c.newCache(ctx, true)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := ch.(*cache.FileCache); ok {
			t.Error("--no-cache should not use the file cache")
		}
	})

	t.Run("file", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)
		t.Setenv(envRedisAddr, "")
		ch, err := c.newCache(ctx, false)
		if err != nil {
			t.Fatal(err)
		}
		fc, ok := ch.(*cache.FileCache)
		if !ok {
			t.Fatalf("cache = %T, want *cache.FileCache", ch)
		}
		if fc.Dir() != filepath.Join(xdg, appName) {
			t.Errorf("Dir() = %q", fc.Dir())
		}
	})

	t.Run("redis unreachable", func(t *testing.T) {
		t.Setenv(envRedisAddr, "127.0.0.1:1")
		_, err := c.newCache(ctx, false)
		if err == nil {
			t.Fatal("expected an error for an unreachable redis")
		}
		if !errors.Is(err, cache.ErrNetwork) {
			t.Errorf("error should be a network error: %v", err)
		}
	})
}
